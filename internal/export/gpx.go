package export

import (
	"bytes"
	"eco-route-service/internal/domain"
	"encoding/xml"
	"errors"
	"fmt"
)

const (
	gpxCreator   = "FastPlaneco"
	gpxNamespace = "http://www.topografix.com/GPX/1/1"
)

type gpxDoc struct {
	XMLName  xml.Name    `xml:"gpx"`
	Version  string      `xml:"version,attr"`
	Creator  string      `xml:"creator,attr"`
	Xmlns    string      `xml:"xmlns,attr"`
	Metadata gpxMetadata `xml:"metadata"`
	Track    gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Name string `xml:"name"`
	Desc string `xml:"desc"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Desc string  `xml:"desc"`
}

// GPX renders the ordered points as a GPX 1.1 track, one trkpt per point.
func GPX(points domain.PointSet, vehicle domain.Vehicle) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New("export gpx: no points")
	}

	doc := gpxDoc{
		Version: "1.1",
		Creator: gpxCreator,
		Xmlns:   gpxNamespace,
		Metadata: gpxMetadata{
			Name: "Optimized Route",
			Desc: "Vehicle: " + string(vehicle),
		},
		Track: gpxTrack{Name: gpxCreator + " GPX"},
	}
	for _, p := range points {
		doc.Track.Segment.Points = append(doc.Track.Segment.Points, gpxPoint{
			Lat:  p.Lat,
			Lon:  p.Lon,
			Desc: p.Address,
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("export gpx: encode: %w", err)
	}

	return buf.Bytes(), nil
}
