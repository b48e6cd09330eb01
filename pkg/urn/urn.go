// Package urn mints the canonical dataset references produced by the lineage
// pipeline. References are immutable strings in the DataHub urn format.
package urn

import (
	"fmt"
	"strings"
)

const (
	// LookerPlatform is the logical platform of views and explores that
	// resolve to other modeling-language entities rather than warehouse
	// tables.
	LookerPlatform = "looker"

	datasetPrefix      = "urn:li:dataset:(urn:li:dataPlatform:"
	hiveDatasetPrefix  = datasetPrefix + "hive"
	redundantHivePart  = "hive."
	dataPlatformFormat = "urn:li:dataPlatform:%s"
)

func DataPlatform(platform string) string {
	return fmt.Sprintf(dataPlatformFormat, platform)
}

// Dataset builds a dataset reference. A configured platform instance is
// prefixed onto the qualified name.
func Dataset(platform, name, platformInstance, env string) string {
	if platformInstance != "" {
		name = platformInstance + "." + name
	}

	return fmt.Sprintf("urn:li:dataset:(%s,%s,%s)", DataPlatform(platform), name, env)
}

// LookerView references a view by model and name, e.g. the target of a
// ${other_view.SQL_TABLE_NAME} binding.
func LookerView(modelName, viewName, platformInstance, env string) string {
	return Dataset(LookerPlatform, modelName+".view."+viewName, platformInstance, env)
}

// LookerExplore references an explore aggregate by model and name.
func LookerExplore(modelName, exploreName, env string) string {
	return Dataset(LookerPlatform, modelName+".explore."+exploreName, "", env)
}

// DatasetName extracts the qualified name component out of a dataset
// reference. Unparseable input is returned as-is.
func DatasetName(datasetURN string) string {
	parts := strings.Split(datasetURN, ",")
	if len(parts) != 3 {
		return datasetURN
	}

	return parts[1]
}

// DropHiveDot removes the redundant leading "hive." segment that hive dataset
// references pick up from the way SQL is written in LookML, e.g.
// hive.my_database.my_table becomes my_database.my_table.
func DropHiveDot(datasetURN string) string {
	if strings.HasPrefix(datasetURN, hiveDatasetPrefix) {
		return strings.ReplaceAll(datasetURN, redundantHivePart, "")
	}

	return datasetURN
}
