package templating

// Merge merges a sparse update into dst and returns dst. Keys holding nested
// mappings on both sides merge recursively; for everything else the update
// wins. An empty update is a no-op.
func Merge(dst, src map[string]interface{}) map[string]interface{} {
	for key, srcValue := range src {
		if dstValue, ok := dst[key]; ok {
			dstMap, dstIsMap := dstValue.(map[string]interface{})
			srcMap, srcIsMap := srcValue.(map[string]interface{})
			if dstIsMap && srcIsMap {
				dst[key] = Merge(dstMap, srcMap)
				continue
			}
		}

		dst[key] = srcValue
	}

	return dst
}
