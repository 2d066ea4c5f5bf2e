package stats

import "strings"

var serviceMapping = map[string]string{
	"auth":  "auth-service",
	"users": "user-service",
	"tasks": "task-service",
	"":      "gateway-service",
}

// ServiceForEndpoint maps a request path to the backend service name the
// gateway logs it under: the first path segment, "-service" suffixed.
func ServiceForEndpoint(endpoint string) string {
	if endpoint == "" || endpoint == "/" {
		return "gateway-service"
	}
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	key := parts[0]
	if service, ok := serviceMapping[key]; ok {
		return service
	}
	return key + "-service"
}
