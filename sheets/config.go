/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package sheets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wtsi-hgi/motiflab-data/config"
	"golang.org/x/oauth2/jwt"
)

const (
	ErrNotServiceAccount = Error("credentials are not for a service account")
	ErrIncompleteKey     = Error("service credentials lack a client email or private key")

	serviceAccountType = "service_account"
	readOnlyScope      = "https://www.googleapis.com/auth/spreadsheets.readonly"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
)

// ServiceCredentials holds the parts of a Google service account key file
// needed to read spreadsheets. Other fields in the file are ignored.
type ServiceCredentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// ServiceCredentialsFromFile parses the service account key file at path. It
// returns an error if the key is not for a service account or lacks the email
// or private key; a missing token URI is taken to be Google's standard one.
func ServiceCredentialsFromFile(path string) (*ServiceCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sc := &ServiceCredentials{}
	if err = json.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err = sc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if sc.TokenURI == "" {
		sc.TokenURI = defaultTokenURL
	}

	return sc, nil
}

func (sc *ServiceCredentials) validate() error {
	if sc.Type != serviceAccountType {
		return ErrNotServiceAccount
	}

	if sc.ClientEmail == "" || sc.PrivateKey == "" {
		return ErrIncompleteKey
	}

	return nil
}

// ServiceCredentialsFromConfig reads the key file named by the Config's
// CredentialsPath.
func ServiceCredentialsFromConfig(c *config.Config) (*ServiceCredentials, error) {
	return ServiceCredentialsFromFile(c.CredentialsPath)
}

func (sc *ServiceCredentials) toJWTConfig() *jwt.Config {
	return &jwt.Config{
		Email:        sc.ClientEmail,
		PrivateKey:   []byte(sc.PrivateKey),
		PrivateKeyID: sc.PrivateKeyID,
		TokenURL:     sc.TokenURI,
		Scopes:       []string{readOnlyScope},
	}
}
