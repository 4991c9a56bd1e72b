package metrics

import "sort"

// freezeTags returns a defensive copy of src so later mutation of the caller's
// map cannot affect instrument state. A nil or empty src yields nil.
func freezeTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// mergeTags merges tag layers with ascending precedence: layers[i+1]
// overrides layers[i]. Keys are case-sensitive.
func mergeTags(layers ...map[string]string) map[string]string {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	if size == 0 {
		return nil
	}
	merged := make(map[string]string, size)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}

// sanitizeTags applies the configured tag limits: empty keys are dropped,
// over-long keys and values are truncated, and when the tag count exceeds the
// limit the surviving set is chosen deterministically by sorted key order.
func sanitizeTags(tags map[string]string, opts *Options) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	clean := make(map[string]string, len(tags))
	for k, v := range tags {
		if k == "" {
			continue
		}
		if opts.MaxTagKeyLength > 0 && len(k) > opts.MaxTagKeyLength {
			k = k[:opts.MaxTagKeyLength]
		}
		if opts.MaxTagValueLength > 0 && len(v) > opts.MaxTagValueLength {
			v = v[:opts.MaxTagValueLength]
		}
		clean[k] = v
	}
	if opts.MaxTagsPerMetric > 0 && len(clean) > opts.MaxTagsPerMetric {
		keys := make([]string, 0, len(clean))
		for k := range clean {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys[opts.MaxTagsPerMetric:] {
			delete(clean, k)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}
