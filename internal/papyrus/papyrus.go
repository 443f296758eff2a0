package papyrus

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/unicode/norm"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

const fragmentNamespace = "Fragments:Quests:"

// ShortName returns "QF_<EditorID>_<8 hex digits>".
func ShortName(editorID string, id formid.ID) string {
	return fmt.Sprintf("QF_%s_%s", editorID, id.Hex())
}

// ScriptName returns the fully qualified fragment script name.
func ScriptName(editorID string, id formid.ID) string {
	return fragmentNamespace + ShortName(editorID, id)
}

// FileName returns the source file name for the quest's fragment script.
func FileName(q *record.Quest) string {
	return ShortName(q.EditorID(), q.ID()) + ".psc"
}

// FragmentName returns the function name bound to a stage.
func FragmentName(stage int) string {
	return fmt.Sprintf("Fragment_Stage_%04d_Item_00", stage)
}

var source = template.Must(template.New("fragment").Parse(`;BEGIN FRAGMENT CODE
Scriptname {{.Script}} Extends Quest Hidden Const
{{range .Fragments}}
;BEGIN FRAGMENT {{.Name}}
Function {{.Name}}()
;BEGIN CODE
{{.Code}}
;END CODE
EndFunction
;END FRAGMENT
{{end}}
{{range .Properties}}{{.Type}} Property {{.Key}} Auto Const Mandatory
{{end}}`))

type property struct {
	Key  string
	Type string
}

// Render produces the fragment script for q. The quest must carry a script
// binding; properties are declared in schema order.
func Render(q *record.Quest) (string, error) {
	if q == nil || q.Script == nil {
		return "", errors.New("render fragment script: quest has no script binding")
	}
	want := ScriptName(q.EditorID(), q.ID())
	if q.Script.Schema.Script != want {
		return "", fmt.Errorf("render fragment script: binding names %q, expected %q", q.Script.Schema.Script, want)
	}

	data := struct {
		Script     string
		Fragments  []record.Fragment
		Properties []property
	}{Script: want}
	for _, f := range q.Script.Fragments {
		f.Code = norm.NFC.String(strings.TrimSpace(f.Code))
		data.Fragments = append(data.Fragments, f)
	}
	for _, k := range q.Script.Schema.Keys {
		typ := strings.TrimSpace(k.Type)
		if typ == "" {
			return "", fmt.Errorf("render fragment script: property %s has no type", k.Key)
		}
		data.Properties = append(data.Properties, property{Key: string(k.Key), Type: typ})
	}

	var buf bytes.Buffer
	if err := source.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render fragment script: %w", err)
	}
	return buf.String(), nil
}
