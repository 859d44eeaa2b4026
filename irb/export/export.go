// Package export writes decoded records to disk formats: a Celsius text
// matrix, JSON metadata, PNG or QOI renderings, PGM previews and raw text.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/cam-per/irbis/irb"
	"github.com/klauspost/compress/zstd"
	"github.com/xfmoulet/qoi"
)

var (
	ErrFormat   = errors.New("export: unknown image format")
	ErrNoPixels = errors.New("export: image has no pixel data")
)

type Format string

const (
	FormatPNG Format = "png"
	FormatQOI Format = "qoi"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPNG, FormatQOI:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// WriteText writes the matrix in degrees Celsius, one row per line with the
// bottom row first.
func WriteText(w io.Writer, img *irb.Image) error {
	if len(img.Data) == 0 {
		return ErrNoPixels
	}
	bw := bufio.NewWriter(w)
	celsius := img.Celsius()
	for y := len(celsius) - 1; y >= 0; y-- {
		for _, v := range celsius[y] {
			if _, err := fmt.Fprintf(bw, "%8.6f ", v); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Metadata is the JSON form of an image without its matrix.
type Metadata struct {
	Width                int       `json:"width"`
	Height               int       `json:"height"`
	BytesPerPixel        int16     `json:"bytePerPixel"`
	Compression          int16     `json:"compressed"`
	Emissivity           float32   `json:"emissivity"`
	Distance             float32   `json:"distance"`
	EnvironmentalTemp    float32   `json:"environmentalTemp"`
	PathTemperature      float32   `json:"pathTemperature"`
	CenterWavelength     float32   `json:"centerWavelength"`
	CalibRangeMin        float32   `json:"calibRangeMin"`
	CalibRangeMax        float32   `json:"calibRangeMax"`
	Device               string    `json:"device"`
	DeviceSerial         string    `json:"deviceSerial"`
	OpticsSerial         string    `json:"opticsSerial"`
	Optics               string    `json:"optics"`
	OpticsResolution     string    `json:"opticsResolution"`
	OpticsText           string    `json:"opticsText"`
	ShotRangeStartErr    float32   `json:"shotRangeStartErr"`
	ShotRangeSize        float32   `json:"shotRangeSize"`
	TimestampRaw         float64   `json:"timestampRaw"`
	TimestampMillisecond int32     `json:"timestampMillisecond"`
	Timestamp            time.Time `json:"timestamp"`
	Palette              []float32 `json:"palette"`
	MinData              float32   `json:"minData"`
	MaxData              float32   `json:"maxData"`
	Degenerate           bool      `json:"degenerate,omitempty"`
}

func NewMetadata(img *irb.Image) Metadata {
	m := Metadata{
		Width:                img.Width,
		Height:               img.Height,
		BytesPerPixel:        img.BytesPerPixel,
		Compression:          int16(img.Compression),
		Emissivity:           img.Emissivity,
		Distance:             img.Distance,
		EnvironmentalTemp:    img.EnvironmentalTemp,
		PathTemperature:      img.PathTemperature,
		CenterWavelength:     img.CenterWavelength,
		CalibRangeMin:        img.CalibRangeMin,
		CalibRangeMax:        img.CalibRangeMax,
		Device:               img.Device,
		DeviceSerial:         img.DeviceSerial,
		OpticsSerial:         img.OpticsSerial,
		Optics:               img.Optics,
		OpticsResolution:     img.OpticsResolution,
		OpticsText:           img.OpticsText,
		ShotRangeStartErr:    img.ShotRangeStartErr,
		ShotRangeSize:        img.ShotRangeSize,
		TimestampRaw:         img.TimestampRaw,
		TimestampMillisecond: img.TimestampMillisecond,
		Timestamp:            img.Timestamp,
		MinData:              img.MinData,
		MaxData:              img.MaxData,
		Degenerate:           img.Degenerate,
	}
	if img.Palette != nil {
		m.Palette = append([]float32(nil), img.Palette[:]...)
	}
	return m
}

func WriteMetadata(w io.Writer, img *irb.Image) error {
	data, err := json.MarshalIndent(NewMetadata(img), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func WriteImage(w io.Writer, m image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, m)
	case FormatQOI:
		return qoi.Encode(w, m)
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}

// WritePGM writes the preview as a binary (P5) graymap.
func WritePGM(w io.Writer, preview *irb.Preview) error {
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", preview.Width, preview.Height); err != nil {
		return err
	}
	_, err := w.Write(preview.Pix)
	return err
}

func WriteTextInfo(w io.Writer, info *irb.TextInfo) error {
	_, err := w.Write(info.Raw)
	return err
}

// Compress wraps w in a zstd stream. Closing the returned writer flushes the
// stream but leaves w open.
func Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
}
