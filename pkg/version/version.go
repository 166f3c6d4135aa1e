package version

// Version is the current version of the analytics service
const Version = "0.3.1"

// UserAgent returns the User-Agent string for HTTP requests
func UserAgent() string {
	return "callinsight/" + Version
}

// ServerHeader returns the Server header value for HTTP responses
func ServerHeader() string {
	return "callinsight/" + Version
}
