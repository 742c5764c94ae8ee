package args

import (
	"fmt"
	"sort"
)

// Category groups declarations by the chain stage they configure.
type Category string

const (
	CatSimulation Category = "sim"
	CatCode       Category = "code"
	CatEncoder    Category = "enc"
	CatModulator  Category = "mod"
	CatChannel    Category = "chn"
	CatDecoder    Category = "dec"
)

// Categories lists every category in display order.
var Categories = []Category{CatSimulation, CatCode, CatEncoder, CatModulator, CatChannel, CatDecoder}

var categoryTitles = map[Category]string{
	CatSimulation: "Simulation",
	CatCode:       "Code",
	CatEncoder:    "Encoder",
	CatModulator:  "Modulator",
	CatChannel:    "Channel",
	CatDecoder:    "Decoder",
}

// Title returns the display name of the category.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Key identifies a declared option.
type Key struct {
	Category Category
	Name     string
}

// NewKey builds a key.
func NewKey(c Category, name string) Key {
	return Key{Category: c, Name: name}
}

// Flag returns the command-line flag name without dashes, e.g. "code-info-bits".
func (k Key) Flag() string {
	return string(k.Category) + "-" + k.Name
}

// String returns the flag as typed on the command line, e.g. "--code-info-bits".
func (k Key) String() string {
	return "--" + k.Flag()
}

// Declaration binds a key to its status, documentation and type.
type Declaration struct {
	Key      Key
	Required bool
	Doc      string
	Type     Type
}

// Declarations is the set of options one launcher accepts. A key is either
// required or optional, never both. The set freezes on the first Read.
type Declarations struct {
	decls  map[Key]Declaration
	order  []Key
	frozen bool
}

// NewDeclarations returns an empty set.
func NewDeclarations() *Declarations {
	return &Declarations{decls: make(map[Key]Declaration)}
}

// Require declares a required option. Redeclaring a required key replaces
// it; redeclaring an optional key as required panics.
func (d *Declarations) Require(key Key, doc string, t Type) {
	d.declare(Declaration{Key: key, Required: true, Doc: doc, Type: t})
}

// Option declares an optional option. Redeclaring an optional key replaces
// it; redeclaring a required key as optional panics.
func (d *Declarations) Option(key Key, doc string, t Type) {
	d.declare(Declaration{Key: key, Required: false, Doc: doc, Type: t})
}

func (d *Declarations) declare(decl Declaration) {
	if d.frozen {
		panic(&DeclarationConflict{Key: decl.Key, Reason: "declarations are frozen once read"})
	}
	if decl.Type == nil {
		panic(&DeclarationConflict{Key: decl.Key, Reason: "nil argument type"})
	}
	if prev, ok := d.decls[decl.Key]; ok {
		if prev.Required != decl.Required {
			panic(&DeclarationConflict{Key: decl.Key, Reason: "declared both required and optional"})
		}
	} else {
		d.order = append(d.order, decl.Key)
	}
	d.decls[decl.Key] = decl
}

// Remove drops a declaration. Families use it to hide common options that do
// not apply to them.
func (d *Declarations) Remove(key Key) {
	if d.frozen {
		panic(&DeclarationConflict{Key: key, Reason: "declarations are frozen once read"})
	}
	if _, ok := d.decls[key]; !ok {
		return
	}
	delete(d.decls, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the declaration of key.
func (d *Declarations) Lookup(key Key) (Declaration, bool) {
	decl, ok := d.decls[key]
	return decl, ok
}

// All returns every declaration in declaration order.
func (d *Declarations) All() []Declaration {
	out := make([]Declaration, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.decls[k])
	}
	return out
}

// RequiredKeys returns the required keys in declaration order.
func (d *Declarations) RequiredKeys() []Key { return d.keys(true) }

// OptionalKeys returns the optional keys in declaration order.
func (d *Declarations) OptionalKeys() []Key { return d.keys(false) }

func (d *Declarations) keys(required bool) []Key {
	var out []Key
	for _, k := range d.order {
		if d.decls[k].Required == required {
			out = append(out, k)
		}
	}
	return out
}

// Read validates raw input against the declarations. Every missing required
// key, failing check and undeclared key is collected; on any failure Read
// returns a *ReadError and no Values.
func (d *Declarations) Read(raw map[Key]string) (*Values, error) {
	d.frozen = true

	var failures []KeyFailure
	accepted := make(map[Key]string, len(raw))
	for _, k := range d.order {
		decl := d.decls[k]
		val, present := raw[k]
		if !present {
			if decl.Required {
				failures = append(failures, KeyFailure{Key: k, Err: ErrMissingRequired})
			}
			continue
		}
		if err := decl.Type.Check(val); err != nil {
			failures = append(failures, KeyFailure{Key: k, Err: err})
			continue
		}
		accepted[k] = val
	}

	var unknown []Key
	for k := range raw {
		if _, ok := d.decls[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].Flag() < unknown[j].Flag() })
	for _, k := range unknown {
		failures = append(failures, KeyFailure{Key: k, Err: ErrUnknownArgument})
	}

	if len(failures) > 0 {
		return nil, &ReadError{Failures: failures}
	}
	return &Values{decls: d, raw: accepted}, nil
}

// Values holds validated raw values; typed access goes through Get.
type Values struct {
	decls *Declarations
	raw   map[Key]string
}

// Has reports whether key was supplied.
func (v *Values) Has(key Key) bool {
	_, ok := v.raw[key]
	return ok
}

// Raw returns the validated text of key.
func (v *Values) Raw(key Key) (string, bool) {
	s, ok := v.raw[key]
	return s, ok
}

// Get converts the value of key with its declared type. It reports false when
// the key was not supplied. Asking for an undeclared key or the wrong T is a
// programming error and panics.
func Get[T any](v *Values, key Key) (T, bool) {
	var zero T
	decl, ok := v.decls.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("args: %s is not declared", key))
	}
	typed, ok := decl.Type.(Typed[T])
	if !ok {
		panic(fmt.Sprintf("args: %s is declared as %s, not %T", key, decl.Type.Title(), zero))
	}
	raw, ok := v.raw[key]
	if !ok {
		return zero, false
	}
	out, err := typed.Convert(raw)
	if err != nil {
		panic(fmt.Sprintf("args: %s passed Check but failed Convert: %v", key, err))
	}
	return out, true
}

// GetOr returns the value of key, or def when it was not supplied.
func GetOr[T any](v *Values, key Key, def T) T {
	if out, ok := Get[T](v, key); ok {
		return out
	}
	return def
}
