package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jengzang/moodmap-backend-go/internal/models"
)

// BuildQuery renders the Overpass QL for "amenity IN tags within radius meters
// of loc", asking for tags plus a center point and at most maxResults elements.
//
//	[out:json][timeout:20];
//	(
//	  node["amenity"="cafe"](around:2000,40.7128,-74.006);
//	);
//	out tags center 30;
func BuildQuery(tags []string, loc models.Location, radius, timeoutSeconds, maxResults int) string {
	lat := strconv.FormatFloat(loc.Lat, 'f', -1, 64)
	lng := strconv.FormatFloat(loc.Lng, 'f', -1, 64)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSeconds)
	for _, tag := range tags {
		fmt.Fprintf(&b, "  node[\"amenity\"=\"%s\"](around:%d,%s,%s);\n", escapeTag(tag), radius, lat, lng)
	}
	fmt.Fprintf(&b, ");\nout tags center %d;\n", maxResults)
	return b.String()
}

// escapeTag keeps a tag value from breaking out of its quoted string.
func escapeTag(tag string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(tag)
}
