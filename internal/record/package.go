package record

// Package is a named bundle of records ready for validation and emission.
type Package struct {
	Name     string
	Registry *Registry
}

// NewPackage returns an empty package for the plugin file name.
func NewPackage(name string) *Package {
	return &Package{Name: name, Registry: NewRegistry()}
}

func (p *Package) Quests() []*Quest { return Collect[*Quest](p.Registry) }

func (p *Package) Scenes() []*Scene { return Collect[*Scene](p.Registry) }

func (p *Package) Topics() []*Topic { return Collect[*Topic](p.Registry) }

func (p *Package) Actors() []*Actor { return Collect[*Actor](p.Registry) }

func (p *Package) Externals() []*ExternalRef { return Collect[*ExternalRef](p.Registry) }

// Owned returns the package-owned top-level records, skipping catalog
// placeholders, in registration order.
func (p *Package) Owned() []Record {
	var out []Record
	for _, rec := range p.Registry.Records() {
		if rec.Kind() != KindExternal {
			out = append(out, rec)
		}
	}
	return out
}

// Masters returns the plugins referenced by catalog placeholders, in first
// registration order.
func (p *Package) Masters() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ext := range p.Externals() {
		plugin := ext.ID().Plugin
		if plugin == p.Name {
			continue
		}
		if _, ok := seen[plugin]; ok {
			continue
		}
		seen[plugin] = struct{}{}
		out = append(out, plugin)
	}
	return out
}
