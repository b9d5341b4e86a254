package aspect

import "github.com/geoknoesis/aspect-rdf/vocab"

// predefinedCharacteristics are the samm-c standard library characteristics.
var predefinedCharacteristics = []struct {
	name     string
	dataType func(v *vocab.Vocabulary) string
}{
	{"Text", func(*vocab.Vocabulary) string { return vocab.XSDString }},
	{"Boolean", func(*vocab.Vocabulary) string { return vocab.XSDBoolean }},
	{"Timestamp", func(*vocab.Vocabulary) string { return vocab.XSDDateTime }},
	{"MultiLanguageText", func(*vocab.Vocabulary) string { return vocab.RDFLangString }},
	{"Language", func(*vocab.Vocabulary) string { return vocab.XSDString }},
	{"Locale", func(*vocab.Vocabulary) string { return vocab.XSDString }},
	{"UnitReference", func(v *vocab.Vocabulary) string { return v.Curie() }},
	{"ResourcePath", func(*vocab.Vocabulary) string { return vocab.XSDAnyURI }},
	{"MimeType", func(*vocab.Vocabulary) string { return vocab.XSDString }},
}

// AddPredefined adds the standard library characteristics of v to the model
// and returns their IDs keyed by name. They are flagged Predefined and are
// never serialized.
func (m *Model) AddPredefined(v *vocab.Vocabulary) map[string]ID {
	ids := make(map[string]ID, len(predefinedCharacteristics))
	for _, def := range predefinedCharacteristics {
		urn := v.SAMMC() + def.name
		if existing, ok := m.Lookup(urn); ok {
			ids[def.name] = existing.Base().ID
			continue
		}
		c := &Characteristic{
			Meta: Meta{
				Namespace:  v.SAMMC(),
				Name:       def.name,
				Predefined: true,
			},
			DataType: Scalar(def.dataType(v)),
		}
		ids[def.name] = m.Add(c)
	}
	return ids
}
