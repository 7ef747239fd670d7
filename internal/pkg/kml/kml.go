// Package kml читает трассы забегов из KML-файлов карт курсов
// и упрощает слишком подробные треки.
package kml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parkrun-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

const (
	DefaultMaxPoints     = 100
	DefaultPrecision     = 0.00001
	DefaultPrecisionStep = 0.000001
)

// Options - параметры упрощения треков
type Options struct {
	MaxPoints     int
	Precision     float64
	PrecisionStep float64
}

// DefaultOptions возвращает параметры упрощения по умолчанию
func DefaultOptions() Options {
	return Options{
		MaxPoints:     DefaultMaxPoints,
		Precision:     DefaultPrecision,
		PrecisionStep: DefaultPrecisionStep,
	}
}

// Parse извлекает треки из всех элементов <coordinates> документа.
// Треки короче двух точек отбрасываются.
func Parse(r io.Reader) ([]domain.Track, error) {
	dec := xml.NewDecoder(r)
	tracks := make([]domain.Track, 0)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read kml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "coordinates" {
			continue
		}

		var raw string
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("decode coordinates: %w", err)
		}

		track, err := parseCoordinates(raw)
		if err != nil {
			return nil, err
		}
		if len(track) > 1 {
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}

// Load читает KML-файл и упрощает его треки
func Load(path string, opts Options) ([]domain.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tracks, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for i, track := range tracks {
		tracks[i] = Simplify(track, opts)
	}
	return tracks, nil
}

// Simplify прореживает трек алгоритмом Дугласа-Пекера, увеличивая допуск
// на PrecisionStep, пока точек не станет не больше MaxPoints
func Simplify(track domain.Track, opts Options) domain.Track {
	if opts.MaxPoints < 2 || len(track) <= opts.MaxPoints {
		return track
	}
	if opts.PrecisionStep <= 0 {
		opts.PrecisionStep = DefaultPrecisionStep
	}

	line := make(orb.LineString, 0, len(track))
	for _, p := range track {
		line = append(line, p.Orb())
	}

	precision := opts.Precision
	for len(line) > opts.MaxPoints {
		line = simplify.DouglasPeucker(precision).Simplify(line.Clone()).(orb.LineString)
		precision += opts.PrecisionStep
	}

	out := make(domain.Track, 0, len(line))
	for _, p := range line {
		out = append(out, domain.Point{Lat: p.Lat(), Lon: p.Lon()})
	}
	return out
}

// parseCoordinates разбирает кортежи "lon,lat[,alt]", разделённые пробелами
func parseCoordinates(raw string) (domain.Track, error) {
	fields := strings.Fields(raw)
	track := make(domain.Track, 0, len(fields))

	for _, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("parse coordinates %q: expected lon,lat[,alt]", field)
		}

		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parse coordinates %q: %w", field, err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse coordinates %q: %w", field, err)
		}

		track = append(track, domain.Point{Lat: lat, Lon: lon})
	}

	return track, nil
}
