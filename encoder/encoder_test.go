package encoder

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

const (
	ns    = "urn:samm:org.example:1.0.0#"
	extNS = "urn:samm:org.ext:1.0.0#"
)

type fixture struct {
	model *aspect.Model
	vocab *vocab.Vocabulary
	enc   *Encoder
	fc    *FileContext
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	model := aspect.NewModel()
	v := vocab.MustNew("2.1.0")
	return &fixture{
		model: model,
		vocab: v,
		enc:   New(model, v, opts...),
		fc:    NewFileContext(store.NewFile("example.ttl", ns, "", store.NewMemory())),
	}
}

func (f *fixture) meta(name string) aspect.Meta {
	return aspect.Meta{Namespace: ns, Name: name}
}

func (f *fixture) objects(t *testing.T, subject rdf.Term, key string) []rdf.Term {
	t.Helper()
	out, err := store.Objects(f.fc.File.Store, subject, f.vocab.Predicate(key))
	require.NoError(t, err)
	return out
}

func (f *fixture) types(t *testing.T, subject rdf.Term) []rdf.Term {
	t.Helper()
	out, err := store.Objects(f.fc.File.Store, subject, rdf.NewIRI(vocab.RDFType))
	require.NoError(t, err)
	return out
}

func (f *fixture) list(t *testing.T, subject rdf.Term, key string) []rdf.Term {
	t.Helper()
	heads := f.objects(t, subject, key)
	require.Len(t, heads, 1, "list head for %s", key)
	items, err := store.ReadList(f.fc.File.Store, heads[0])
	require.NoError(t, err)
	return items
}

func (f *fixture) all(t *testing.T) []rdf.Quad {
	t.Helper()
	quads, err := store.All(f.fc.File.Store)
	require.NoError(t, err)
	return quads
}

func (f *fixture) subjectCount(t *testing.T, subject rdf.Term) int {
	t.Helper()
	quads, err := f.fc.File.Store.Match(store.Pattern{S: subject})
	require.NoError(t, err)
	return len(quads)
}

func iri(name string) rdf.IRI { return rdf.NewIRI(ns + name) }

func TestVisitPredefinedWritesNothing(t *testing.T) {
	f := newFixture(t)
	ids := f.model.AddPredefined(f.vocab)

	el, err := f.enc.Visit(f.fc, ids["Text"])
	require.NoError(t, err)
	assert.Nil(t, el)
	assert.Empty(t, f.all(t))
}

func TestVisitRequiresFileAndKnownElement(t *testing.T) {
	f := newFixture(t)
	_, err := f.enc.Visit(nil, aspect.ID("x"))
	assert.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, ErrCodeNoFile, Code(err))

	_, err = f.enc.Visit(f.fc, aspect.ID("missing"))
	assert.ErrorIs(t, err, ErrUnknownElement)
	assert.Equal(t, ErrCodeUnknownElement, Code(err))
}

func TestVisitAspect(t *testing.T) {
	f := newFixture(t)
	predefined := f.model.AddPredefined(f.vocab)
	speed := f.model.Add(&aspect.Property{Meta: f.meta("speed"), Characteristic: predefined["Text"]})
	movementMeta := f.meta("Movement")
	movementMeta.PreferredNames = aspect.LangString{"en": "Movement"}
	movement := f.model.Add(&aspect.Aspect{
		Meta:       movementMeta,
		Properties: []aspect.PropertyUse{{Property: speed, Optional: true}},
	})

	el, err := f.enc.Visit(f.fc, movement)
	require.NoError(t, err)
	require.NotNil(t, el)

	assert.Equal(t, []rdf.Term{f.vocab.Class("Aspect")}, f.types(t, iri("Movement")))
	assert.Equal(t, []rdf.Term{rdf.NewLangLiteral("Movement", "en")}, f.objects(t, iri("Movement"), vocab.PreferredName))

	properties := f.list(t, iri("Movement"), vocab.Properties)
	require.Len(t, properties, 1)
	use := properties[0]
	assert.Equal(t, []rdf.Term{iri("speed")}, f.objects(t, use, vocab.Property))
	assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("true", vocab.XSDBoolean)}, f.objects(t, use, vocab.Optional))

	assert.Equal(t, []rdf.Term{rdf.NewIRI(vocab.RDFNil)}, f.objects(t, iri("Movement"), vocab.Operations))
	assert.Equal(t, []rdf.Term{rdf.NewIRI(vocab.RDFNil)}, f.objects(t, iri("Movement"), vocab.Events))

	// The property was reached through the aspect; the predefined characteristic was not written.
	assert.Equal(t, []rdf.Term{rdf.NewIRI(f.vocab.SAMMC() + "Text")}, f.objects(t, iri("speed"), vocab.Characteristic))
	assert.Zero(t, f.subjectCount(t, rdf.NewIRI(f.vocab.SAMMC()+"Text")))

	prefixes := f.fc.File.Prefixes.Map()
	assert.Equal(t, ns, prefixes[""])
	assert.Equal(t, f.vocab.SAMM(), prefixes["samm"])
	assert.Equal(t, f.vocab.SAMMC(), prefixes["samm-c"])
	assert.Equal(t, vocab.RDF, prefixes["rdf"])
}

func TestVisitIsIdempotent(t *testing.T) {
	f := newFixture(t)
	char := f.model.Add(&aspect.Characteristic{
		Meta:     f.meta("Speed"),
		DataType: aspect.Scalar(vocab.XSDFloat),
		Variant:  aspect.Enumeration{Values: []aspect.Item{aspect.LiteralItem(1.5), aspect.LiteralItem(2.5)}},
	})
	prop := f.model.Add(&aspect.Property{Meta: f.meta("speed"), Characteristic: char, ExampleValue: aspect.Some(aspect.Literal{Value: 0})})

	_, err := f.enc.Visit(f.fc, prop)
	require.NoError(t, err)
	first := f.all(t)

	_, err = f.enc.Visit(f.fc, prop)
	require.NoError(t, err)
	second := f.all(t)

	assert.Equal(t, len(first), len(second))
	assert.ElementsMatch(t, quadStrings(first), quadStrings(second))
	assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("0", vocab.XSDFloat)}, f.objects(t, iri("speed"), vocab.ExampleValue))
}

func quadStrings(quads []rdf.Quad) []string {
	out := make([]string, 0, len(quads))
	for _, q := range quads {
		// Blank node labels change on re-encode; compare their shape only.
		s := q.String()
		for _, term := range []rdf.Term{q.S, q.O} {
			if b, ok := term.(rdf.BlankNode); ok {
				s = strings.ReplaceAll(s, b.String(), "_:cell")
			}
		}
		out = append(out, s)
	}
	return out
}

func TestVisitExternalReference(t *testing.T) {
	f := newFixture(t)

	extStore := store.NewMemory()
	external := rdf.NewIRI(extNS + "ExternalConstraint")
	require.NoError(t, extStore.Add(rdf.Quad{S: external, P: rdf.NewIRI(vocab.RDFType), O: f.vocab.Class("Constraint")}))
	f.fc.Loaded = []*store.File{store.NewFile("ext.ttl", extNS, "ext", extStore)}

	base := f.model.Add(&aspect.Characteristic{Meta: f.meta("Characteristic2"), DataType: aspect.Scalar(vocab.XSDString)})
	encoding := f.model.Add(&aspect.Constraint{Meta: f.meta("EncodingConstraint1"), Variant: aspect.EncodingConstraint{Value: "UTF-8"}})
	ext := f.model.Add(&aspect.Constraint{Meta: aspect.Meta{Namespace: extNS, Name: "ExternalConstraint"}})
	trait := f.model.Add(&aspect.Characteristic{
		Meta:    f.meta("Trait1"),
		Variant: aspect.Trait{BaseCharacteristic: base, Constraints: []aspect.ID{encoding, ext}},
	})

	_, err := f.enc.Visit(f.fc, trait)
	require.NoError(t, err)

	assert.Equal(t, []rdf.Term{iri("EncodingConstraint1"), external}, f.list(t, iri("Trait1"), vocab.Constraint))
	assert.Equal(t, []rdf.Term{iri("Characteristic2")}, f.objects(t, iri("Trait1"), vocab.BaseCharacteristic))
	assert.Zero(t, f.subjectCount(t, external))

	alias, ok := f.fc.File.Prefixes.Alias(extNS)
	require.True(t, ok)
	assert.Equal(t, "ext", alias)

	assert.Equal(t, []rdf.Term{rdf.NewIRI(f.vocab.SAMM() + "UTF-8")}, f.objects(t, iri("EncodingConstraint1"), vocab.Value))
	assert.Equal(t, []rdf.Term{f.vocab.CharacteristicClass("EncodingConstraint")}, f.types(t, iri("EncodingConstraint1")))
	assert.Equal(t, []rdf.Term{f.vocab.CharacteristicClass("Trait")}, f.types(t, iri("Trait1")))
}

func TestVisitFlaggedExternalElement(t *testing.T) {
	f := newFixture(t)
	meta := aspect.Meta{Namespace: extNS, Name: "Shared", External: true}
	shared := f.model.Add(&aspect.Characteristic{Meta: meta, DataType: aspect.Scalar(vocab.XSDString)})
	prop := f.model.Add(&aspect.Property{Meta: f.meta("p"), Characteristic: shared})

	_, err := f.enc.Visit(f.fc, prop)
	require.NoError(t, err)

	assert.Equal(t, []rdf.Term{rdf.NewIRI(extNS + "Shared")}, f.objects(t, iri("p"), vocab.Characteristic))
	assert.Zero(t, f.subjectCount(t, rdf.NewIRI(extNS+"Shared")))
	// No loaded file defines the namespace, so no alias is declared.
	assert.False(t, f.fc.File.Prefixes.Declared(extNS))
}

func TestRangeConstraintTypedByTraitBase(t *testing.T) {
	f := newFixture(t)
	base := f.model.Add(&aspect.Characteristic{Meta: f.meta("Base"), DataType: aspect.Scalar(vocab.XSDFloat)})
	rangeID := f.model.Add(&aspect.Constraint{Meta: f.meta("SpeedRange"), Variant: aspect.RangeConstraint{
		MinValue:   aspect.Some[any](0),
		MaxValue:   aspect.Some[any](100.5),
		LowerBound: vocab.AtLeast,
	}})
	trait := f.model.Add(&aspect.Characteristic{Meta: f.meta("Limited"), Variant: aspect.Trait{BaseCharacteristic: base, Constraints: []aspect.ID{rangeID}}})

	check := func(t *testing.T, f *fixture) {
		assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("0", vocab.XSDFloat)}, f.objects(t, iri("SpeedRange"), vocab.MinValue))
		assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("100.5", vocab.XSDFloat)}, f.objects(t, iri("SpeedRange"), vocab.MaxValue))
		assert.Equal(t, []rdf.Term{f.vocab.Bound(vocab.AtLeast)}, f.objects(t, iri("SpeedRange"), vocab.LowerBoundDefinition))
		assert.Empty(t, f.objects(t, iri("SpeedRange"), vocab.UpperBoundDefinition))
		assert.Empty(t, f.objects(t, iri("SpeedRange"), CharacteristicType))
	}

	t.Run("through trait", func(t *testing.T) {
		_, err := f.enc.Visit(f.fc, trait)
		require.NoError(t, err)
		check(t, f)
	})
	t.Run("directly", func(t *testing.T) {
		f.fc = NewFileContext(store.NewFile("other.ttl", ns, "", store.NewMemory()))
		_, err := f.enc.Visit(f.fc, rangeID)
		require.NoError(t, err)
		check(t, f)
	})
}

func TestConstraintScalars(t *testing.T) {
	f := newFixture(t)
	length := f.model.Add(&aspect.Constraint{Meta: f.meta("Length"), Variant: aspect.LengthConstraint{MinValue: aspect.Some[uint64](0)}})
	fixed := f.model.Add(&aspect.Constraint{Meta: f.meta("Fixed"), Variant: aspect.FixedPointConstraint{Scale: aspect.Some[uint64](2), Integer: aspect.Some[uint64](3)}})
	lang := f.model.Add(&aspect.Constraint{Meta: f.meta("Lang"), Variant: aspect.LanguageConstraint{LanguageCode: "de"}})
	regex := f.model.Add(&aspect.Constraint{Meta: f.meta("Pattern"), Variant: aspect.RegularExpressionConstraint{Value: `^\d+$`}})

	for _, id := range []aspect.ID{length, fixed, lang, regex} {
		_, err := f.enc.Visit(f.fc, id)
		require.NoError(t, err)
	}

	assert.Equal(t, []rdf.Term{rdf.NewLiteral("0")}, f.objects(t, iri("Length"), vocab.MinValue))
	assert.Empty(t, f.objects(t, iri("Length"), vocab.MaxValue))
	assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("2", vocab.XSDPositiveInteger)}, f.objects(t, iri("Fixed"), vocab.Scale))
	assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("3", vocab.XSDPositiveInteger)}, f.objects(t, iri("Fixed"), vocab.Integer))
	assert.Equal(t, []rdf.Term{rdf.NewLiteral("de")}, f.objects(t, iri("Lang"), vocab.LanguageCode))
	assert.Equal(t, []rdf.Term{rdf.NewLiteral(`^\d+$`)}, f.objects(t, iri("Pattern"), vocab.Value))
}

func TestEncodingConstraintRejectsUnknownEncoding(t *testing.T) {
	f := newFixture(t)
	id := f.model.Add(&aspect.Constraint{Meta: f.meta("Enc"), Variant: aspect.EncodingConstraint{Value: "UTF-7"}})

	_, err := f.enc.Visit(f.fc, id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	assert.Equal(t, ErrCodeUnknownEncoding, Code(err))

	var visitErr *VisitError
	require.True(t, errors.As(err, &visitErr))
	assert.Equal(t, ns+"Enc", visitErr.URN)
}

func TestCharacteristicRename(t *testing.T) {
	f := newFixture(t)
	id := f.model.Add(&aspect.Characteristic{Meta: f.meta("Characteristic1"), DataType: aspect.Scalar(vocab.XSDString)})

	_, err := f.enc.Visit(f.fc, id)
	require.NoError(t, err)
	require.Equal(t, 2, f.subjectCount(t, iri("Characteristic1")))

	require.NoError(t, f.enc.Rename(f.fc, id, "NewCharacteristic"))

	assert.Zero(t, f.subjectCount(t, iri("Characteristic1")))
	assert.ElementsMatch(t, []string{
		rdf.Quad{S: iri("NewCharacteristic"), P: rdf.NewIRI(vocab.RDFType), O: f.vocab.Class("Characteristic")}.String(),
		rdf.Quad{S: iri("NewCharacteristic"), P: f.vocab.Predicate(vocab.DataType), O: rdf.NewIRI(vocab.XSDString)}.String(),
	}, quadStrings(f.all(t)))

	urn, ok := f.fc.WrittenURN(id)
	require.True(t, ok)
	assert.Equal(t, ns+"NewCharacteristic", urn)
}

func TestRenameRelocatesEveryKind(t *testing.T) {
	f := newFixture(t)
	meta := f.meta("Old")
	meta.PreferredNames = aspect.LangString{"en": "Position"}
	meta.Descriptions = aspect.LangString{"en": "Where it is"}
	entity := f.model.Add(&aspect.Entity{Meta: meta})

	_, err := f.enc.Visit(f.fc, entity)
	require.NoError(t, err)

	require.NoError(t, f.enc.Rename(f.fc, entity, "New"))

	assert.Zero(t, f.subjectCount(t, iri("Old")))
	assert.Equal(t, []rdf.Term{rdf.NewLangLiteral("Position", "en")}, f.objects(t, iri("New"), vocab.PreferredName))
	assert.Equal(t, []rdf.Term{rdf.NewLangLiteral("Where it is", "en")}, f.objects(t, iri("New"), vocab.Description))
	assert.Equal(t, []rdf.Term{f.vocab.Class("Entity")}, f.types(t, iri("New")))
}

func TestRenameRepointsReferences(t *testing.T) {
	f := newFixture(t)
	char := f.model.Add(&aspect.Characteristic{Meta: f.meta("Characteristic1"), DataType: aspect.Scalar(vocab.XSDString)})
	prop := f.model.Add(&aspect.Property{Meta: f.meta("speed"), Characteristic: char})
	unit := f.model.Add(&aspect.Unit{Meta: f.meta("metre"), Symbol: "m"})
	km := f.model.Add(&aspect.Unit{Meta: f.meta("kilometre"), Symbol: "km", ReferenceUnit: unit})

	_, err := f.enc.Visit(f.fc, prop)
	require.NoError(t, err)
	_, err = f.enc.Visit(f.fc, km)
	require.NoError(t, err)

	require.NoError(t, f.enc.Rename(f.fc, char, "Renamed"))
	require.NoError(t, f.enc.Rename(f.fc, unit, "meter"))

	assert.Equal(t, []rdf.Term{iri("Renamed")}, f.objects(t, iri("speed"), vocab.Characteristic))
	assert.Equal(t, []rdf.Term{iri("meter")}, f.objects(t, iri("kilometre"), vocab.ReferenceUnit))
	assert.Zero(t, f.subjectCount(t, iri("Characteristic1")))
	assert.Zero(t, f.subjectCount(t, iri("metre")))

	dangling, err := f.fc.File.Store.Match(store.Pattern{O: iri("metre")})
	require.NoError(t, err)
	assert.Empty(t, dangling)
}

func TestStateDefaultValueIsReplaced(t *testing.T) {
	f := newFixture(t)
	state := &aspect.Characteristic{
		Meta:     f.meta("Status"),
		DataType: aspect.Scalar(vocab.XSDString),
		Variant: aspect.State{
			Values:       []aspect.Item{aspect.LiteralItem("a"), aspect.LiteralItem("b")},
			DefaultValue: aspect.Some(aspect.LiteralItem("a")),
		},
	}
	id := f.model.Add(state)

	_, err := f.enc.Visit(f.fc, id)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Term{rdf.NewLiteral("a"), rdf.NewLiteral("b")}, f.list(t, iri("Status"), vocab.Values))

	variant := state.Variant.(aspect.State)
	variant.DefaultValue = aspect.Some(aspect.LiteralItem("b"))
	state.Variant = variant
	_, err = f.enc.Visit(f.fc, id)
	require.NoError(t, err)

	assert.Equal(t, []rdf.Term{rdf.NewLiteral("b")}, f.objects(t, iri("Status"), vocab.DefaultValue))
}

func TestStructuredValueElements(t *testing.T) {
	f := newFixture(t)
	predefined := f.model.AddPredefined(f.vocab)
	year := f.model.Add(&aspect.Property{Meta: f.meta("year"), Characteristic: predefined["Text"]})
	month := f.model.Add(&aspect.Property{Meta: f.meta("month"), Characteristic: predefined["Text"]})
	day := f.model.Add(&aspect.Property{Meta: f.meta("day"), Characteristic: predefined["Text"]})
	rule := `(\d{4})-(\d{2})-(\d{2})`
	id := f.model.Add(&aspect.Characteristic{
		Meta:     f.meta("Date"),
		DataType: aspect.Scalar(vocab.XSDDate),
		Variant: aspect.StructuredValue{
			DeconstructionRule: rule,
			Elements: []aspect.Item{
				aspect.RefItem(year), aspect.LiteralItem("-"),
				aspect.RefItem(month), aspect.LiteralItem("-"),
				aspect.RefItem(day),
			},
		},
	})

	_, err := f.enc.Visit(f.fc, id)
	require.NoError(t, err)

	assert.Equal(t, []rdf.Term{
		iri("year"), rdf.NewLiteral("-"),
		iri("month"), rdf.NewLiteral("-"),
		iri("day"),
	}, f.list(t, iri("Date"), vocab.Elements))
	assert.Equal(t, []rdf.Term{rdf.NewLiteral(rule)}, f.objects(t, iri("Date"), vocab.DeconstructionRule))
	assert.Equal(t, []rdf.Term{f.vocab.Class("Property")}, f.types(t, iri("month")))
}

func TestParentPropagationClearsExampleValue(t *testing.T) {
	f := newFixture(t)
	char := &aspect.Characteristic{Meta: f.meta("Value"), DataType: aspect.Scalar(vocab.XSDString)}
	charID := f.model.Add(char)
	prop := f.model.Add(&aspect.Property{Meta: f.meta("value"), Characteristic: charID, ExampleValue: aspect.Some(aspect.Literal{Value: "x"})})
	entity := f.model.Add(&aspect.Entity{Meta: f.meta("Point")})
	list := f.model.Add(&aspect.Characteristic{Meta: f.meta("Values"), Variant: aspect.Collection{Kind: aspect.CollectionList, ElementCharacteristic: charID}})

	_, err := f.enc.Visit(f.fc, prop)
	require.NoError(t, err)
	_, err = f.enc.Visit(f.fc, list)
	require.NoError(t, err)
	require.Equal(t, []rdf.Term{rdf.NewLiteral("x")}, f.objects(t, iri("value"), vocab.ExampleValue))

	char.DataType = aspect.EntityType(entity)
	_, err = f.enc.Visit(f.fc, charID)
	require.NoError(t, err)

	assert.Empty(t, f.objects(t, iri("value"), vocab.ExampleValue))
	assert.Equal(t, []rdf.Term{iri("Value")}, f.objects(t, iri("value"), vocab.Characteristic))
	assert.Equal(t, []rdf.Term{iri("Value")}, f.objects(t, iri("Values"), vocab.ElementCharacteristic))
	assert.Equal(t, []rdf.Term{iri("Point")}, f.objects(t, iri("Value"), vocab.DataType))
	assert.Equal(t, []rdf.Term{f.vocab.Class("Entity")}, f.types(t, iri("Point")))
}

func TestVariantChangeClearsStaleStatements(t *testing.T) {
	f := newFixture(t)
	char := &aspect.Characteristic{
		Meta:     f.meta("Kind"),
		DataType: aspect.Scalar(vocab.XSDString),
		Variant:  aspect.Enumeration{Values: []aspect.Item{aspect.LiteralItem("x")}},
	}
	id := f.model.Add(char)
	_, err := f.enc.Visit(f.fc, id)
	require.NoError(t, err)

	char.Variant = aspect.Collection{Kind: aspect.CollectionSet}
	_, err = f.enc.Visit(f.fc, id)
	require.NoError(t, err)

	assert.Empty(t, f.objects(t, iri("Kind"), vocab.Values))
	assert.Equal(t, []rdf.Term{f.vocab.CharacteristicClass("Set")}, f.types(t, iri("Kind")))
	for _, q := range f.all(t) {
		_, blank := q.S.(rdf.BlankNode)
		assert.False(t, blank, "orphaned list cell %s", q)
	}
}

func TestUnknownVariantWritesBaseFields(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)
	f := newFixture(t, WithMetrics(metrics))

	meta := f.meta("Future")
	meta.Descriptions = aspect.LangString{"en": "later"}
	id := f.model.Add(&aspect.Characteristic{Meta: meta, DataType: aspect.Scalar(vocab.XSDString), Variant: aspect.OtherCharacteristic{Class: "Vector"}})

	_, err = f.enc.Visit(f.fc, id)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Term{f.vocab.CharacteristicClass("Vector")}, f.types(t, iri("Future")))
	assert.Equal(t, []rdf.Term{rdf.NewLangLiteral("later", "en")}, f.objects(t, iri("Future"), vocab.Description))

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, family := range families {
		for _, m := range family.GetMetric() {
			values[family.GetName()] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, values["aspectrdf_encoder_skipped_variants_total"])
	assert.Equal(t, 1.0, values["aspectrdf_encoder_visits_total"])
	assert.Equal(t, 3.0, values["aspectrdf_encoder_statements_added_total"])
}

func TestEntityInstance(t *testing.T) {
	f := newFixture(t)
	predefined := f.model.AddPredefined(f.vocab)
	latChar := f.model.Add(&aspect.Characteristic{Meta: f.meta("Latitude"), DataType: aspect.Scalar(vocab.XSDDouble)})
	lat := f.model.Add(&aspect.Property{Meta: f.meta("latitude"), Characteristic: latChar})
	tagsChar := f.model.Add(&aspect.Characteristic{
		Meta:     f.meta("Tags"),
		DataType: aspect.Scalar(vocab.RDFLangString),
		Variant:  aspect.Collection{Kind: aspect.CollectionList, ElementCharacteristic: predefined["MultiLanguageText"]},
	})
	tags := f.model.Add(&aspect.Property{Meta: f.meta("tags"), Characteristic: tagsChar})
	position := f.model.Add(&aspect.Entity{Meta: f.meta("Position"), Properties: []aspect.PropertyUse{aspect.Use(lat), aspect.Use(tags)}})
	instance := &aspect.EntityInstance{
		Meta:   f.meta("Home"),
		Entity: position,
		Assignments: []aspect.Assignment{
			{Property: lat, Value: aspect.LiteralItem(48.1)},
			{Property: tags, List: true, Values: []aspect.Item{aspect.LangItem("a", "en"), {}, aspect.LangItem("b", "de")}},
		},
	}
	id := f.model.Add(instance)

	_, err := f.enc.Visit(f.fc, id)
	require.NoError(t, err)

	assert.Equal(t, []rdf.Term{iri("Position")}, f.types(t, iri("Home")))
	latitude, err := store.Objects(f.fc.File.Store, iri("Home"), iri("latitude"))
	require.NoError(t, err)
	assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("48.1", vocab.XSDDouble)}, latitude)

	heads, err := store.Objects(f.fc.File.Store, iri("Home"), iri("tags"))
	require.NoError(t, err)
	require.Len(t, heads, 1)
	items, err := store.ReadList(f.fc.File.Store, heads[0])
	require.NoError(t, err)
	assert.Equal(t, []rdf.Term{rdf.NewLangLiteral("a", "en"), rdf.NewLangLiteral("b", "de")}, items)
	assert.Equal(t, []rdf.Term{f.vocab.Class("Entity")}, f.types(t, iri("Position")))

	instance.Assignments = instance.Assignments[:1]
	_, err = f.enc.Visit(f.fc, id)
	require.NoError(t, err)
	heads, err = store.Objects(f.fc.File.Store, iri("Home"), iri("tags"))
	require.NoError(t, err)
	assert.Empty(t, heads)
}

func TestUnitFields(t *testing.T) {
	f := newFixture(t)
	metre := f.model.Add(&aspect.Unit{Meta: f.meta("metre"), Symbol: "m"})
	id := f.model.Add(&aspect.Unit{
		Meta:                    f.meta("kilometre"),
		Symbol:                  "km",
		CommonCode:              "KMT",
		ConversionFactor:        "1000",
		NumericConversionFactor: aspect.Some(0.0),
		ReferenceUnit:           metre,
		QuantityKinds:           []string{f.vocab.Unit() + "length"},
	})

	_, err := f.enc.Visit(f.fc, id)
	require.NoError(t, err)

	km := iri("kilometre")
	assert.Equal(t, []rdf.Term{rdf.NewLiteral("km")}, f.objects(t, km, vocab.Symbol))
	assert.Equal(t, []rdf.Term{rdf.NewLiteral("1000")}, f.objects(t, km, vocab.ConversionFactor))
	assert.Equal(t, []rdf.Term{rdf.NewTypedLiteral("0", vocab.XSDDouble)}, f.objects(t, km, vocab.NumericConversionFactor))
	assert.Equal(t, []rdf.Term{iri("metre")}, f.objects(t, km, vocab.ReferenceUnit))
	assert.Equal(t, []rdf.Term{rdf.NewIRI(f.vocab.Unit() + "length")}, f.objects(t, km, vocab.QuantityKind))
	assert.Equal(t, []rdf.Term{f.vocab.Class("Unit")}, f.types(t, iri("metre")))
	assert.True(t, f.fc.File.Prefixes.Declared(f.vocab.Unit()))
}

func TestOperationAndEvent(t *testing.T) {
	f := newFixture(t)
	in := f.model.Add(&aspect.Property{Meta: f.meta("target")})
	out := f.model.Add(&aspect.Property{Meta: f.meta("result")})
	op := f.model.Add(&aspect.Operation{Meta: f.meta("move"), Input: []aspect.PropertyUse{{Property: in, PayloadName: "to"}}, Output: out})
	ev := f.model.Add(&aspect.Event{Meta: f.meta("moved")})
	a := f.model.Add(&aspect.Aspect{Meta: f.meta("Robot"), Operations: []aspect.ID{op}, Events: []aspect.ID{ev}})

	_, err := f.enc.Visit(f.fc, a)
	require.NoError(t, err)

	assert.Equal(t, []rdf.Term{iri("move")}, f.list(t, iri("Robot"), vocab.Operations))
	assert.Equal(t, []rdf.Term{iri("moved")}, f.list(t, iri("Robot"), vocab.Events))
	assert.Equal(t, []rdf.Term{iri("result")}, f.objects(t, iri("move"), vocab.Output))
	input := f.list(t, iri("move"), vocab.Input)
	require.Len(t, input, 1)
	assert.Equal(t, []rdf.Term{rdf.NewLiteral("to")}, f.objects(t, input[0], vocab.PayloadName))
	assert.Empty(t, f.list(t, iri("moved"), vocab.Parameters))
}

func TestVisitAllHandlesCycles(t *testing.T) {
	f := newFixture(t)
	entity := &aspect.Entity{Meta: f.meta("Node")}
	entityID := f.model.Add(entity)
	char := f.model.Add(&aspect.Characteristic{Meta: f.meta("NodeRef"), DataType: aspect.EntityType(entityID), Variant: aspect.SingleEntity{}})
	next := f.model.Add(&aspect.Property{Meta: f.meta("next"), Characteristic: char, ExampleValue: aspect.Some(aspect.Literal{Value: "ignored"})})
	entity.Properties = []aspect.PropertyUse{aspect.Use(next)}

	require.NoError(t, f.enc.VisitAll(f.fc))

	for name, class := range map[string]rdf.IRI{
		"Node":    f.vocab.Class("Entity"),
		"NodeRef": f.vocab.CharacteristicClass("SingleEntity"),
		"next":    f.vocab.Class("Property"),
	} {
		assert.Equal(t, []rdf.Term{class}, f.types(t, iri(name)), name)
	}
	assert.Empty(t, f.objects(t, iri("next"), vocab.ExampleValue))
}

func TestDeleteRemovesElementAndItsLists(t *testing.T) {
	f := newFixture(t)
	speed := f.model.Add(&aspect.Property{Meta: f.meta("speed")})
	a := f.model.Add(&aspect.Aspect{Meta: f.meta("Movement"), Properties: []aspect.PropertyUse{aspect.Use(speed), {Property: speed, NotInPayload: true}}})

	_, err := f.enc.Visit(f.fc, a)
	require.NoError(t, err)
	require.NoError(t, f.enc.Delete(f.fc, a))

	assert.Zero(t, f.subjectCount(t, iri("Movement")))
	for _, q := range f.all(t) {
		_, blank := q.S.(rdf.BlankNode)
		assert.False(t, blank, "orphaned statement %s", q)
	}
	assert.Equal(t, []rdf.Term{f.vocab.Class("Property")}, f.types(t, iri("speed")))
	_, ok := f.fc.WrittenURN(a)
	assert.False(t, ok)
}

func TestEncodeToTurtle(t *testing.T) {
	f := newFixture(t)
	kmh := f.model.Add(&aspect.Unit{Meta: aspect.Meta{Namespace: f.vocab.Unit(), Name: "kilometrePerHour", Predefined: true}})
	speedChar := f.model.Add(&aspect.Characteristic{Meta: f.meta("Speed"), DataType: aspect.Scalar(vocab.XSDFloat), Variant: aspect.Measurement{Unit: kmh}})
	speed := f.model.Add(&aspect.Property{Meta: f.meta("speed"), Characteristic: speedChar})
	f.model.Add(&aspect.Aspect{Meta: f.meta("Movement"), Properties: []aspect.PropertyUse{{Property: speed, Optional: true}}})

	require.NoError(t, f.enc.VisitAll(f.fc))

	quads := f.all(t)
	var sb strings.Builder
	require.NoError(t, rdf.WriteAll(&sb, rdf.FormatTurtle, quads, rdf.WithPrefixes(f.fc.File.Prefixes.Map())))
	out := sb.String()

	assert.Contains(t, out, "@prefix : <"+ns+"> .\n")
	assert.Contains(t, out, "@prefix unit: <"+f.vocab.Unit()+"> .\n")
	assert.Contains(t, out, ":Movement a samm:Aspect ;\n"+
		"    samm:properties ( [ samm:property :speed ; samm:optional true ] ) ;\n"+
		"    samm:operations () ;\n"+
		"    samm:events () .\n")
	assert.Contains(t, out, ":Speed a samm-c:Measurement ;\n"+
		"    samm:dataType xsd:float ;\n"+
		"    samm-c:unit unit:kilometrePerHour .\n")
	assert.NotContains(t, out, "_:b")
}

func TestFalseLiteralIsOmitted(t *testing.T) {
	f := newFixture(t)
	switchChar := f.model.Add(&aspect.Characteristic{
		Meta:     f.meta("Switch"),
		DataType: aspect.Scalar(vocab.XSDBoolean),
		Variant:  aspect.Enumeration{Values: []aspect.Item{aspect.LiteralItem(true), aspect.LiteralItem(false)}},
	})
	on := &aspect.Property{Meta: f.meta("on"), Characteristic: switchChar, ExampleValue: aspect.Some(aspect.Literal{Value: true})}
	onID := f.model.Add(on)
	flag := f.model.Add(&aspect.AbstractProperty{Meta: f.meta("flag"), ExampleValue: aspect.Some(aspect.Literal{Value: false})})
	off := f.model.Add(&aspect.Value{Meta: f.meta("Off"), Value: aspect.Literal{Value: false}})

	for _, id := range []aspect.ID{onID, flag, off} {
		_, err := f.enc.Visit(f.fc, id)
		require.NoError(t, err)
	}
	require.Equal(t, []rdf.Term{rdf.NewTypedLiteral("true", vocab.XSDBoolean)}, f.objects(t, iri("on"), vocab.ExampleValue))

	on.ExampleValue = aspect.Some(aspect.Literal{Value: false})
	_, err := f.enc.Visit(f.fc, onID)
	require.NoError(t, err)

	assert.Empty(t, f.objects(t, iri("on"), vocab.ExampleValue))
	assert.Empty(t, f.objects(t, iri("flag"), vocab.ExampleValue))
	assert.Equal(t, []rdf.Term{f.vocab.Class("AbstractProperty")}, f.types(t, iri("flag")))
	assert.Empty(t, f.objects(t, iri("Off"), vocab.Value))
	assert.Equal(t, []rdf.Term{f.vocab.Class("Value")}, f.types(t, iri("Off")))

	// Enumeration members are list entries, not optional properties: false stays.
	assert.Equal(t, []rdf.Term{
		rdf.NewTypedLiteral("true", vocab.XSDBoolean),
		rdf.NewTypedLiteral("false", vocab.XSDBoolean),
	}, f.list(t, iri("Switch"), vocab.Values))
}

func TestVariantFields(t *testing.T) {
	f := newFixture(t)
	left := f.model.Add(&aspect.Characteristic{Meta: f.meta("L"), DataType: aspect.Scalar(vocab.XSDString)})
	right := f.model.Add(&aspect.Characteristic{Meta: f.meta("R"), DataType: aspect.Scalar(vocab.XSDInt)})
	unit := f.model.Add(&aspect.Unit{Meta: f.meta("u"), Symbol: "u"})
	abstractProp := f.model.Add(&aspect.AbstractProperty{Meta: f.meta("ap"), ExampleValue: aspect.Some(aspect.Literal{Value: 0})})
	member := f.model.Add(&aspect.Property{Meta: f.meta("member"), Characteristic: left, Extends: abstractProp})
	abstractEntity := f.model.Add(&aspect.AbstractEntity{Meta: f.meta("AE"), Properties: []aspect.PropertyUse{aspect.Use(abstractProp)}})

	tests := []struct {
		name    string
		element aspect.Element
		subject string
		class   rdf.IRI
		fields  map[string][]rdf.Term
		lists   map[string][]rdf.Term
	}{
		{
			name:    "either",
			element: &aspect.Characteristic{Meta: f.meta("Result"), Variant: aspect.Either{Left: left, Right: right}},
			subject: "Result",
			class:   f.vocab.CharacteristicClass("Either"),
			fields:  map[string][]rdf.Term{vocab.Left: {iri("L")}, vocab.Right: {iri("R")}},
		},
		{
			name:    "quantifiable",
			element: &aspect.Characteristic{Meta: f.meta("Amount"), DataType: aspect.Scalar(vocab.XSDFloat), Variant: aspect.Quantifiable{Unit: unit}},
			subject: "Amount",
			class:   f.vocab.CharacteristicClass("Quantifiable"),
			fields:  map[string][]rdf.Term{vocab.Unit: {iri("u")}},
		},
		{
			name:    "duration",
			element: &aspect.Characteristic{Meta: f.meta("Elapsed"), DataType: aspect.Scalar(vocab.XSDInt), Variant: aspect.Duration{Unit: unit}},
			subject: "Elapsed",
			class:   f.vocab.CharacteristicClass("Duration"),
			fields:  map[string][]rdf.Term{vocab.Unit: {iri("u")}},
		},
		{
			name:    "locale constraint",
			element: &aspect.Constraint{Meta: f.meta("German"), Variant: aspect.LocaleConstraint{LocaleCode: "de-DE"}},
			subject: "German",
			class:   f.vocab.CharacteristicClass("LocaleConstraint"),
			fields:  map[string][]rdf.Term{vocab.LocaleCode: {rdf.NewLiteral("de-DE")}},
		},
		{
			name:    "abstract property",
			element: &aspect.AbstractProperty{Meta: f.meta("weight"), ExampleValue: aspect.Some(aspect.Literal{Value: 0})},
			subject: "weight",
			class:   f.vocab.Class("AbstractProperty"),
			fields:  map[string][]rdf.Term{vocab.ExampleValue: {rdf.NewTypedLiteral("0", vocab.XSDInteger)}},
		},
		{
			name:    "property extends",
			element: &aspect.Property{Meta: f.meta("size"), Characteristic: left, Extends: abstractProp},
			subject: "size",
			class:   f.vocab.Class("Property"),
			fields:  map[string][]rdf.Term{vocab.Extends: {iri("ap")}, vocab.Characteristic: {iri("L")}},
		},
		{
			name:    "abstract entity",
			element: &aspect.AbstractEntity{Meta: f.meta("Shape"), Properties: []aspect.PropertyUse{aspect.Use(member)}},
			subject: "Shape",
			class:   f.vocab.Class("AbstractEntity"),
			lists:   map[string][]rdf.Term{vocab.Properties: {iri("member")}},
		},
		{
			name:    "entity extends",
			element: &aspect.Entity{Meta: f.meta("Circle"), Extends: abstractEntity, Properties: []aspect.PropertyUse{aspect.Use(member)}},
			subject: "Circle",
			class:   f.vocab.Class("Entity"),
			fields:  map[string][]rdf.Term{vocab.Extends: {iri("AE")}},
			lists:   map[string][]rdf.Term{vocab.Properties: {iri("member")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := f.model.Add(tt.element)
			_, err := f.enc.Visit(f.fc, id)
			require.NoError(t, err)

			subject := iri(tt.subject)
			assert.Equal(t, []rdf.Term{tt.class}, f.types(t, subject))
			for key, want := range tt.fields {
				assert.Equal(t, want, f.objects(t, subject, key), key)
			}
			for key, want := range tt.lists {
				assert.Equal(t, want, f.list(t, subject, key), key)
			}
		})
	}

	// References were encoded on the way.
	assert.Equal(t, []rdf.Term{f.vocab.Class("AbstractEntity")}, f.types(t, iri("AE")))
	assert.Equal(t, []rdf.Term{iri("ap")}, f.list(t, iri("AE"), vocab.Properties))
	assert.Equal(t, []rdf.Term{f.vocab.Class("Unit")}, f.types(t, iri("u")))
}

func TestCodeClassifiesModelAndStoreErrors(t *testing.T) {
	f := newFixture(t)
	a := f.model.Add(&aspect.Entity{Meta: f.meta("A")})
	f.model.Add(&aspect.Entity{Meta: f.meta("B")})

	err := f.enc.Rename(f.fc, a, "B")
	assert.ErrorIs(t, err, aspect.ErrDuplicateURN)
	assert.Equal(t, ErrCodeDuplicateURN, Code(err))

	err = f.enc.Rename(f.fc, aspect.ID("missing"), "C")
	assert.ErrorIs(t, err, aspect.ErrNotFound)
	assert.Equal(t, ErrCodeUnknownElement, Code(err))

	db, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	fc := NewFileContext(store.NewFile("closed.ttl", ns, "", db))
	_, err = f.enc.Visit(fc, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.Equal(t, ErrCodeStore, Code(err))
	var storeErr *StoreError
	assert.True(t, errors.As(err, &storeErr))

	assert.Equal(t, ErrCodeUnknown, Code(errors.New("boom")))
	assert.Equal(t, ErrorCode(""), Code(nil))
}
