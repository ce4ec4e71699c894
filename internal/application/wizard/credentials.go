package wizard

// StaticCredential hands out the credential the session was opened with
type StaticCredential string

// CurrentCredential returns the credential, or false when it is empty
func (c StaticCredential) CurrentCredential() (string, bool) {
	return string(c), c != ""
}
