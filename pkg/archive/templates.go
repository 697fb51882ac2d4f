// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"embed"
	"io"
	"strings"
	"text/template"
)

// ToolName is written into the banner and trailer of every archive.
const ToolName = "mshar"

const (
	headerTemplate = "header.sh.tmpl"
	blockTemplate  = "block.sh.tmpl"
	footerTemplate = "footer.sh.tmpl"
)

//go:embed templates/*.sh.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("mshar").Option("missingkey=error").ParseFS(templateFS, "templates/*.sh.tmpl"))

type frameData struct {
	Tool string
}

// blockData feeds one file block. Path lands inside single quotes, so it
// must already have passed validatePath.
type blockData struct {
	Path    string
	Payload string
}

func render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

func renderString(name string, data any) (string, error) {
	var sb strings.Builder
	if err := render(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// 📜 Header returns the fixed prologue every archive starts with
func Header() (string, error) {
	return renderString(headerTemplate, frameData{Tool: ToolName})
}

// 📜 Footer returns the fixed epilogue every archive ends with
func Footer() (string, error) {
	return renderString(footerTemplate, frameData{Tool: ToolName})
}
