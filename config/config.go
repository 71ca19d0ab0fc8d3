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

package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvVarCreds  = "MOTIFLAB_CREDENTIALS_FILE"
	EnvVarSheet  = "MOTIFLAB_SPREADSHEET_ID"
	EnvVarUser   = "MOTIFLAB_SQL_USER"
	EnvVarPass   = "MOTIFLAB_SQL_PASS"
	EnvVarHost   = "MOTIFLAB_SQL_HOST"
	EnvVarPort   = "MOTIFLAB_SQL_PORT"
	EnvVarDBName = "MOTIFLAB_SQL_DB"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrMissingEnvs = Error("missing required environment variables")

// Config says where the motif catalogue database and the metadata
// spreadsheet are. Either may be unconfigured.
type Config struct {
	CredentialsPath string
	SheetID         string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string
}

// FromEnv returns a new Config with properies populated from environment
// variables MOTIFLAB_*, where * is amongst: CREDENTIALS_FILE, SPREADSHEET_ID,
// SQL_USER, SQL_PASS, SQL_HOST, SQL_PORT, and SQL_DB.
//
// The SQL_* variables together configure the database, and CREDENTIALS_FILE
// and SPREADSHEET_ID together configure the spreadsheet. At least one of
// these groups must be fully set, or ErrMissingEnvs is returned.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env") //nolint:errcheck

	c := &Config{
		CredentialsPath: os.Getenv(EnvVarCreds),
		SheetID:         os.Getenv(EnvVarSheet),
		User:            os.Getenv(EnvVarUser),
		Password:        os.Getenv(EnvVarPass),
		Host:            os.Getenv(EnvVarHost),
		Port:            os.Getenv(EnvVarPort),
		DBName:          os.Getenv(EnvVarDBName),
	}

	if !c.HasDB() && !c.HasSheets() {
		return nil, ErrMissingEnvs
	}

	return c, nil
}

// HasDB returns true if all the SQL_* variables were set.
func (c *Config) HasDB() bool {
	return c.User != "" && c.Password != "" && c.Host != "" && c.Port != "" && c.DBName != ""
}

// HasSheets returns true if both the credentials file and spreadsheet ID were
// set.
func (c *Config) HasSheets() bool {
	return c.CredentialsPath != "" && c.SheetID != ""
}
