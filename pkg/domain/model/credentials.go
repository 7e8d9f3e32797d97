package model

// Credentials authenticate against the release API. Either Token or the
// GitHub App triple is used; Token wins when both are present.
type Credentials struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     []byte `masq:"secret"`
}

// UseApp reports whether GitHub App installation auth should be used
func (c Credentials) UseApp() bool {
	return c.Token == "" && c.AppID != 0 && c.InstallationID != 0 && len(c.PrivateKey) > 0
}

// Empty reports whether no credential was configured at all
func (c Credentials) Empty() bool {
	return c.Token == "" && !c.UseApp()
}
