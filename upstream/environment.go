package upstream

import (
	"fmt"
	"sort"
	"strings"
)

// Named API environments
const (
	EnvLocal  = "local"
	EnvNgrok  = "ngrok"
	EnvRender = "render"
)

var baseURLs = map[string]string{
	EnvLocal:  "http://127.0.0.1:5000",
	EnvNgrok:  "https://YOUR-NGROK-URL.ngrok-free.app",
	EnvRender: "https://hackfusion-final.onrender.com",
}

// ResolveBaseURL picks the API root. An explicit override wins over the named
// environment.
func ResolveBaseURL(env, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return strings.TrimRight(override, "/"), nil
	}

	url, ok := baseURLs[strings.ToLower(strings.TrimSpace(env))]
	if !ok {
		return "", fmt.Errorf("unknown API environment %q (valid: %s)", env, strings.Join(Environments(), ", "))
	}
	return url, nil
}

// Environments lists the known environment names
func Environments() []string {
	names := make([]string, 0, len(baseURLs))
	for name := range baseURLs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
