package views

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"

	"github.com/photopin/photopin/internal/session"
)

type marker struct {
	FileName  string  `json:"fileName"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Date      string  `json:"date,omitempty"`
	Time      string  `json:"time,omitempty"`
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Photo locations</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var markers = {{.Markers}};
var map = L.map('map');
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
function escapeHTML(s) {
  return s.replace(/[&<>"']/g, function (c) {
    return {'&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;'}[c];
  });
}
if (markers.length === 0) {
  map.setView([20, 0], 2);
} else {
  var group = L.featureGroup(markers.map(function (m) {
    var lines = ['<strong>' + escapeHTML(m.fileName) + '</strong>', escapeHTML(m.address)];
    if (m.date) {
      lines.push(escapeHTML(m.time ? m.date + ' ' + m.time : m.date));
    }
    return L.marker([m.latitude, m.longitude]).bindPopup(lines.join('<br>'));
  })).addTo(map);
  map.fitBounds(group.getBounds().pad(0.2));
}
</script>
</body>
</html>
`))

// WriteMap renders an HTML map of the located results to path. Photos
// without coordinates are left off the map.
func WriteMap(path string, entries []session.ProcessedImage) error {
	markers := make([]marker, 0, len(entries))
	for _, entry := range entries {
		if entry.Latitude == nil || entry.Longitude == nil {
			continue
		}
		markers = append(markers, marker{
			FileName:  entry.FileName,
			Address:   entry.Address,
			Latitude:  *entry.Latitude,
			Longitude: *entry.Longitude,
			Date:      entry.Date,
			Time:      entry.Time,
		})
	}

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, struct{ Markers []marker }{markers}); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save map: %w", err)
	}
	slog.Info("Saved map", "path", path, "markers", len(markers))
	return nil
}
