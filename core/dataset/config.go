package dataset

// Config holds configuration for the dataset location.
type Config struct {
	// Dir is the directory containing the normalized collection files.
	Dir string `mapstructure:"dir" default:"data/normalized"`
}
