package metrics

import "errors"

// Options represents factory-wide configuration shared by every instrument a
// factory builds. Tag layers merge with precedence local > resource > global
// before the limits below are applied.
type Options struct {
	// GlobalTags are attached to every instrument (lowest precedence).
	GlobalTags map[string]string `json:"global_tags" yaml:"global_tags"`
	// ResourceTags describe the emitting resource (host, service, region).
	ResourceTags map[string]string `json:"resource_tags" yaml:"resource_tags"`
	// MaxTagsPerMetric caps the merged tag count. Zero means unlimited.
	MaxTagsPerMetric int `json:"max_tags_per_metric" yaml:"max_tags_per_metric"`
	// MaxTagKeyLength truncates over-long tag keys. Zero means unlimited.
	MaxTagKeyLength int `json:"max_tag_key_length" yaml:"max_tag_key_length"`
	// MaxTagValueLength truncates over-long tag values. Zero means unlimited.
	MaxTagValueLength int `json:"max_tag_value_length" yaml:"max_tag_value_length"`
	// SummaryWindowSize is the sliding sample window capacity used by
	// summaries and timers.
	SummaryWindowSize int `json:"summary_window_size" yaml:"summary_window_size"`
}

// DefaultOptions returns the default factory options.
func DefaultOptions() *Options {
	return &Options{
		MaxTagsPerMetric:  32,
		MaxTagKeyLength:   128,
		MaxTagValueLength: 256,
		SummaryWindowSize: 1024,
	}
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o.MaxTagsPerMetric < 0 {
		return errors.New("max tags per metric must be greater than or equal to 0")
	}
	if o.MaxTagKeyLength < 0 {
		return errors.New("max tag key length must be greater than or equal to 0")
	}
	if o.MaxTagValueLength < 0 {
		return errors.New("max tag value length must be greater than or equal to 0")
	}
	if o.SummaryWindowSize < 1 {
		return errors.New("summary window size must be greater than 0")
	}
	return nil
}
