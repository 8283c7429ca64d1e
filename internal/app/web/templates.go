package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gaqzi/passepartout"
	"github.com/gaqzi/passepartout/ppdefaults"
)

//go:embed all:templates
var templates embed.FS

// newPassepartout loads the pages and fragments from templates/ with the
// shared partials/ directory available to all of them.
func newPassepartout() *passepartout.Passepartout {
	fsys, err := passepartout.FSWithoutPrefix(templates, "templates")
	if err != nil {
		panic(err)
	}

	partials := &ppdefaults.PartialsWithCommon{FS: fsys, CommonDir: "partials"}
	defaultTemplate := template.New("").Funcs(map[string]any{
		"map": func(d map[string]any, args ...any) (map[string]any, error) {
			if d == nil {
				d = make(map[string]any, len(args)/2)
			}

			if oddArgs := len(args)%2 != 0; oddArgs {
				return nil, fmt.Errorf("did not receive an even key/value pair of arguments for map: %s", args)
			}

			for i := 0; i < len(args); i += 2 {
				key, ok := args[i].(string)
				if !ok {
					return nil, fmt.Errorf("argument %d is not a string: %q", i, args[i])
				}

				d[key] = args[i+1]
			}

			return d, nil
		},
	})

	return passepartout.New(
		ppdefaults.NewLoaderBuilder().
			WithDefaults(fsys).
			TemplateLoader(ppdefaults.NewCachedLoader(&ppdefaults.TemplateByNameLoader{FS: fsys})).
			PartialsFor(partials.Load).
			TemplateConfig(defaultTemplate).
			Build(),
	)
}
