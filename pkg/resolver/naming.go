// Package resolver normalizes table references across storage-platform naming
// conventions and resolves cross-file view identities.
package resolver

import (
	"strings"

	"github.com/sid-acryl/lookml-lineage/pkg/config"
	"github.com/sid-acryl/lookml-lineage/pkg/logger"
)

// Platforms whose native addressing is db.table rather than db.schema.table.
var twoPartPlatforms = map[string]bool{
	"hive":   true,
	"mysql":  true,
	"athena": true,
}

func PlatformHasTwoParts(platform string) bool {
	return twoPartPlatforms[platform]
}

// QualifiedTableName resolves a raw table reference to its canonical
// dot-separated form for the connection's platform. Input can be "table",
// "db.table" or "db.schema.table"; missing leading segments are filled from
// the connection defaults, and a superfluous leading segment is dropped for
// two-part platforms. Output is always lowercased. Names with more than three
// segments are reported and returned unchanged.
func QualifiedTableName(sqlTableName string, conn config.Connection, log logger.Logger) string {
	parts := strings.Split(sqlTableName, ".")

	switch len(parts) {
	case 1:
		if PlatformHasTwoParts(conn.Platform) {
			return strings.ToLower(conn.DefaultDB + "." + sqlTableName)
		}

		return strings.ToLower(conn.DefaultDB + "." + conn.DefaultSchema + "." + sqlTableName)
	case 2:
		if PlatformHasTwoParts(conn.Platform) {
			return strings.ToLower(sqlTableName)
		}

		return strings.ToLower(conn.DefaultDB + "." + sqlTableName)
	case 3:
		if PlatformHasTwoParts(conn.Platform) {
			// The leading segment is a project/catalog qualifier the
			// platform has no place for.
			return strings.ToLower(strings.Join(parts[1:], "."))
		}

		return strings.ToLower(sqlTableName)
	}

	log.Warnf("table reference %q has more than 3 parts, keeping it as-is", sqlTableName)

	return strings.ToLower(sqlTableName)
}
