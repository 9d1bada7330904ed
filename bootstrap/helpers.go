package bootstrap

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// RedactURI hides the password of a connection URI for logging
func RedactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// ClassifyConnectionError provides specific error messages based on the type of connection failure.
func ClassifyConnectionError(err error, uri string) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() || strings.Contains(errStr, "server selection timeout") {
		return fmt.Sprintf("Connection to MongoDB at %s timed out.\n"+
			"  Possible causes:\n"+
			"  - MongoDB is starting up (wait and retry)\n"+
			"  - Network latency or firewall blocking the connection\n"+
			"  Remediation:\n"+
			"  - Check if MongoDB is running: docker ps | grep mongo\n"+
			"  - Verify mongodb.uri in config.yaml or CVEDEX_MONGODB_URI", uri)
	}

	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(errStr, "connection refused") {
		return fmt.Sprintf("Connection refused by MongoDB at %s.\n"+
			"  This usually means MongoDB is not running.\n"+
			"  Remediation:\n"+
			"  - Start MongoDB: docker compose up -d mongodb\n"+
			"  - Or serve a fixture instead: storage.backend=memory", uri)
	}

	if strings.Contains(errStr, "no such host") {
		return fmt.Sprintf("Cannot resolve hostname in MongoDB URI %s.\n"+
			"  Remediation:\n"+
			"  - Verify the hostname is correct\n"+
			"  - Check DNS configuration", uri)
	}

	if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "auth error") {
		return fmt.Sprintf("Authentication failed for MongoDB at %s.\n"+
			"  Remediation:\n"+
			"  - Verify the credentials in mongodb.uri\n"+
			"  - Check the authSource parameter", uri)
	}

	return fmt.Sprintf("Failed to connect to MongoDB at %s: %v\n"+
		"  Remediation:\n"+
		"  - Ensure MongoDB is running and accessible\n"+
		"  - Check config.yaml mongodb.uri setting", uri, err)
}
