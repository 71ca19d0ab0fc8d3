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
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const filePerm = 0644

var allEnvVars = []string{ //nolint:gochecknoglobals
	EnvVarCreds, EnvVarSheet, EnvVarUser, EnvVarPass, EnvVarHost, EnvVarPort, EnvVarDBName,
}

func TestConfig(t *testing.T) {
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}

	Convey("Given a full set of env vars, you can make a config", t, func() {
		testPath := "/path"
		testSheetID := "sheetid"
		testUser := "user"
		testPass := "pass"
		testHost := "host"
		testPort := "1234"
		testDBName := "db"

		os.Setenv(EnvVarCreds, testPath)
		os.Setenv(EnvVarSheet, testSheetID)
		os.Setenv(EnvVarUser, testUser)
		os.Setenv(EnvVarPass, testPass)
		os.Setenv(EnvVarHost, testHost)
		os.Setenv(EnvVarPort, testPort)
		os.Setenv(EnvVarDBName, testDBName)

		config, err := FromEnv()
		So(err, ShouldBeNil)
		So(config, ShouldNotBeNil)
		So(config.CredentialsPath, ShouldEqual, testPath)
		So(config.SheetID, ShouldEqual, testSheetID)
		So(config.User, ShouldEqual, testUser)
		So(config.Password, ShouldEqual, testPass)
		So(config.Host, ShouldEqual, testHost)
		So(config.Port, ShouldEqual, testPort)
		So(config.DBName, ShouldEqual, testDBName)
		So(config.HasDB(), ShouldBeTrue)
		So(config.HasSheets(), ShouldBeTrue)

		Convey("With only the database vars, the sheets are unconfigured", func() {
			os.Setenv(EnvVarCreds, "")

			config, err := FromEnv()
			So(err, ShouldBeNil)
			So(config.HasDB(), ShouldBeTrue)
			So(config.HasSheets(), ShouldBeFalse)
		})

		Convey("With only the sheet vars, the database is unconfigured", func() {
			os.Setenv(EnvVarUser, "")

			config, err := FromEnv()
			So(err, ShouldBeNil)
			So(config.HasDB(), ShouldBeFalse)
			So(config.HasSheets(), ShouldBeTrue)
		})

		Convey("Without a full set of either group, FromEnv fails", func() {
			os.Setenv(EnvVarUser, "")
			os.Setenv(EnvVarSheet, "")

			config, err := FromEnv()
			So(err, ShouldEqual, ErrMissingEnvs)
			So(config, ShouldBeNil)
		})

		Convey("You can load values from an .env file", func() {
			os.Unsetenv(EnvVarUser)
			os.Unsetenv(EnvVarSheet)

			dir := t.TempDir()

			config, err := FromEnv(dir)
			So(err, ShouldEqual, ErrMissingEnvs)
			So(config, ShouldBeNil)

			err = os.WriteFile(filepath.Join(dir, ".env"),
				[]byte(EnvVarUser+"=fileuser\n"+EnvVarDBName+"=filedb"), filePerm)
			So(err, ShouldBeNil)

			config, err = FromEnv(dir)
			So(err, ShouldBeNil)
			So(config.User, ShouldEqual, "fileuser")
			So(config.CredentialsPath, ShouldEqual, testPath)
			So(config.DBName, ShouldEqual, testDBName)
			So(config.HasSheets(), ShouldBeFalse)
		})
	})
}

func TestSettings(t *testing.T) {
	Convey("With no settings file you get the defaults", t, func() {
		s, err := LoadSettings("")
		So(err, ShouldBeNil)
		So(s.Seed, ShouldEqual, uint64(0))
		So(s.Modules.Prefix, ShouldEqual, defaultModulePrefix)
		So(s.Modules.MinSize, ShouldEqual, defaultModuleMinSize)
		So(s.Modules.MaxSize, ShouldEqual, 0)
		So(s.TempDir, ShouldEqual, os.TempDir())
	})

	Convey("Given a YAML settings file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.yaml")

		err := os.WriteFile(path, []byte("random-seed: 42\nmodules:\n  prefix: CRM\n  max-size: 4\n"+
			"temp-dir: "+dir+"\n"), filePerm)
		So(err, ShouldBeNil)

		Convey("Its values override the defaults", func() {
			s, err := LoadSettings(path)
			So(err, ShouldBeNil)
			So(s.Seed, ShouldEqual, uint64(42))
			So(s.Modules.Prefix, ShouldEqual, "CRM")
			So(s.Modules.MinSize, ShouldEqual, defaultModuleMinSize)
			So(s.Modules.MaxSize, ShouldEqual, 4)
			So(s.TempDir, ShouldEqual, dir)
		})
	})

	Convey("A missing settings file is an error", t, func() {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)
	})
}
