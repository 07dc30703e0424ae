// Package auth resolves API credentials from a declarative profile.
//
// Resolution order: an explicit key file path, an inline key document, or
// application default credentials when neither is configured. An optional
// impersonation chain is layered on top of whichever base was chosen.
package auth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/procflow-io/procflow/internal/config"
)

// cloudPlatformScope is the default OAuth scope when none are configured.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Options resolves credentials into client options for the generated clients.
func Options(creds config.Credentials) ([]option.ClientOption, error) {
	if creds.KeyFile != "" && creds.KeyJSON != "" {
		return nil, fmt.Errorf("credentials: key_file and key_json are mutually exclusive")
	}

	var opts []option.ClientOption

	switch {
	case creds.KeyFile != "":
		opts = append(opts, option.WithCredentialsFile(creds.KeyFile))
	case creds.KeyJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(creds.KeyJSON)))
	}
	// Neither set: application default credentials apply implicitly.

	if len(creds.Scopes) > 0 {
		opts = append(opts, option.WithScopes(creds.Scopes...))
	}

	if len(creds.ImpersonationChain) > 0 {
		chain := creds.ImpersonationChain
		target := chain[len(chain)-1]
		delegates := chain[:len(chain)-1]
		opts = append(opts, option.ImpersonateCredentials(target, delegates...))
	}

	return opts, nil
}

// TokenSource resolves credentials into an OAuth2 token source for callers
// that need raw tokens rather than a configured client.
func TokenSource(ctx context.Context, creds config.Credentials) (oauth2.TokenSource, error) {
	if creds.KeyFile != "" && creds.KeyJSON != "" {
		return nil, fmt.Errorf("credentials: key_file and key_json are mutually exclusive")
	}

	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = []string{cloudPlatformScope}
	}

	var keyData []byte
	switch {
	case creds.KeyFile != "":
		data, err := os.ReadFile(creds.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file %s: %w", creds.KeyFile, err)
		}
		keyData = data
	case creds.KeyJSON != "":
		keyData = []byte(creds.KeyJSON)
	default:
		ts, err := google.DefaultTokenSource(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve application default credentials: %w", err)
		}
		return ts, nil
	}

	parsed, err := google.CredentialsFromJSON(ctx, keyData, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	return parsed.TokenSource, nil
}
