package migrate

// Config holds configuration for the document-database target.
type Config struct {
	// ProjectID is the cloud project the Firestore database lives in.
	ProjectID string `mapstructure:"project_id" default:""`
	// CredentialsFile is the path to a service-account key file. Empty means
	// application default credentials.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
}
