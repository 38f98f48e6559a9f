package export

import (
	"eco-route-service/internal/domain"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const googleMapsDirURL = "https://www.google.com/maps/dir/?api=1"

// GoogleMapsURL builds a directions deep link: the first point is the origin,
// the last the destination and everything between a waypoint.
func GoogleMapsURL(points domain.PointSet, vehicle domain.Vehicle) (string, error) {
	if len(points) < 2 {
		return "", errors.New("export google maps: need at least 2 points")
	}

	mode := "driving"
	if p, ok := vehicle.Profile(); ok && p.TravelMode != "" {
		mode = p.TravelMode
	}

	origin := points[0]
	destination := points[len(points)-1]

	waypoints := make([]string, 0, len(points)-2)
	for _, p := range points[1 : len(points)-1] {
		waypoints = append(waypoints, latLon(p))
	}

	var b strings.Builder
	b.WriteString(googleMapsDirURL)
	fmt.Fprintf(&b, "&origin=%s", latLon(origin))
	fmt.Fprintf(&b, "&destination=%s", latLon(destination))
	if len(waypoints) > 0 {
		fmt.Fprintf(&b, "&waypoints=%s", url.QueryEscape(strings.Join(waypoints, "|")))
	}
	fmt.Fprintf(&b, "&travelmode=%s", mode)

	return b.String(), nil
}

func latLon(p domain.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}
