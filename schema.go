package ranker

import (
	"fmt"
	"reflect"
)

const tagKey = "ranker"

// Schema roles a struct field can play.
const (
	roleID          = "id"
	roleTitle       = "title"
	roleDescription = "description"
	roleContent     = "content"
	roleCategory    = "category"
	roleTags        = "tags"
)

var stringSliceType = reflect.TypeOf([]string(nil))

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ reflect.Type

	// Struct field index per role; absent roles have no entry.
	roles map[string]int
}

// parseSchema reflects on T and extracts ranker struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("ranker: type parameter must be a struct")
	}
	if t.Kind() == reflect.Pointer {
		return nil, fmt.Errorf("ranker: type %s must be a struct, not a pointer", t)
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("ranker: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, roles: make(map[string]int, 6)}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := meta.applyTag(i, &f, tag); err != nil {
			return nil, err
		}
	}
	return validateSchema(meta)
}

func (m *schemaMeta) applyTag(idx int, f *reflect.StructField, role string) error {
	switch role {
	case roleID, roleTitle, roleDescription, roleContent, roleCategory:
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("ranker: field %s tagged %q must be a string", f.Name, role)
		}
	case roleTags:
		if f.Type != stringSliceType {
			return fmt.Errorf("ranker: field %s tagged %q must be []string", f.Name, role)
		}
	default:
		return fmt.Errorf("ranker: unknown role %q on field %s", role, f.Name)
	}
	if !f.IsExported() {
		return fmt.Errorf("ranker: field %s must be exported", f.Name)
	}
	if _, dup := m.roles[role]; dup {
		return fmt.Errorf("ranker: duplicate %q tag on field %s", role, f.Name)
	}
	m.roles[role] = idx
	return nil
}

func validateSchema(meta *schemaMeta) (*schemaMeta, error) {
	for _, required := range []string{roleID, roleTitle, roleContent, roleCategory} {
		if _, ok := meta.roles[required]; !ok {
			return nil, fmt.Errorf("ranker: no field with `ranker:%q` tag in %s", required, meta.typ)
		}
	}
	return meta, nil
}

// toDocument converts a typed struct to Document using schema metadata.
func (m *schemaMeta) toDocument(item any) Document {
	v := reflect.ValueOf(item)
	return Document{
		ID:          m.str(v, roleID),
		Title:       m.str(v, roleTitle),
		Description: m.str(v, roleDescription),
		Content:     m.str(v, roleContent),
		Category:    Category(m.str(v, roleCategory)),
		Tags:        m.tags(v),
	}
}

// fromDocument converts a Document back to a typed struct using schema metadata.
func (m *schemaMeta) fromDocument(doc *Document) any {
	v := reflect.New(m.typ).Elem()
	m.setStr(v, roleID, doc.ID)
	m.setStr(v, roleTitle, doc.Title)
	m.setStr(v, roleDescription, doc.Description)
	m.setStr(v, roleContent, doc.Content)
	m.setStr(v, roleCategory, string(doc.Category))
	if idx, ok := m.roles[roleTags]; ok && len(doc.Tags) > 0 {
		v.Field(idx).Set(reflect.ValueOf(append([]string(nil), doc.Tags...)))
	}
	return v.Interface()
}

func (m *schemaMeta) str(v reflect.Value, role string) string {
	idx, ok := m.roles[role]
	if !ok {
		return ""
	}
	return v.Field(idx).String()
}

func (m *schemaMeta) tags(v reflect.Value) []string {
	idx, ok := m.roles[roleTags]
	if !ok {
		return nil
	}
	tags, _ := v.Field(idx).Interface().([]string)
	if len(tags) == 0 {
		return nil
	}
	return append([]string(nil), tags...)
}

func (m *schemaMeta) setStr(v reflect.Value, role, s string) {
	idx, ok := m.roles[role]
	if !ok {
		return
	}
	// Named string types (type Kind string) convert through the field's own type.
	v.Field(idx).Set(reflect.ValueOf(s).Convert(v.Field(idx).Type()))
}
