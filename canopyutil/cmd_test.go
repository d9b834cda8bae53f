/*
Copyright © 2026 the canopy authors.
This file is part of canopy.

canopy is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

canopy is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with canopy.  If not, see <http://www.gnu.org/licenses/>.
*/

package canopyutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wusunlab/canopy"
)

func executeCommand(t *testing.T, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	Root.SetOut(buf)
	Root.SetErr(buf)
	Root.SetArgs(args)
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestVersionCmd(t *testing.T) {
	out := executeCommand(t, "version")
	if !strings.Contains(out, canopy.Version) {
		t.Errorf("version output %q does not contain %q", out, canopy.Version)
	}
}

func TestRunCmd(t *testing.T) {
	out := executeCommand(t, "run",
		"--LeafFile", "testdata/leaf_example.toml",
		"--Temperature", "298.15",
		"--PPFD", "1500",
		"--CO2", "400")
	for _, name := range []string{"LeafTemperature", "Assimilation",
		"StomatalConductance", "LatentHeat"} {
		if !strings.Contains(out, name) {
			t.Errorf("run output is missing %q:\n%s", name, out)
		}
	}
}

func TestRunCmdMissingLeafFile(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOut(buf)
	Root.SetErr(buf)
	Root.SetArgs([]string{"run", "--LeafFile", "testdata/no_such_file.toml"})
	if err := Root.Execute(); err == nil {
		t.Error("expected an error for a missing leaf parameter file")
	}
}

func TestSolarCmd(t *testing.T) {
	out := executeCommand(t, "solar", "35.7", "139.8",
		"--time", "2026-06-21T03:00:00Z")
	if !strings.Contains(out, "solar zenith angle") {
		t.Errorf("solar output is missing the zenith angle:\n%s", out)
	}
	if !strings.Contains(out, "sunrise") {
		t.Errorf("solar output is missing sunrise:\n%s", out)
	}
}

func TestSolarCmdPolar(t *testing.T) {
	out := executeCommand(t, "solar", "80", "0",
		"--time", "2026-06-21T12:00:00Z")
	if !strings.Contains(out, "does not set") {
		t.Errorf("solar output does not report the polar day:\n%s", out)
	}
}
