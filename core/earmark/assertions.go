package earmark

import (
	"time"

	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/rdf"
)

// TermOf returns the RDF resource naming it.
func TermOf(it Item) rdf.Term {
	return rdf.IRI(it.ID())
}

// Assertions returns the graph of free-form statements made about the
// items of d. Writers serialize it next to the markup graph.
func (d *Document) Assertions() *rdf.Graph { return d.graph }

// Assert records the statement (subject, predicate, object).
func (d *Document) Assert(subject, predicate, object rdf.Term) error {
	t := rdf.T(subject, predicate, object)
	if !t.Valid() {
		return errors.NewValidation("assertion", "invalid triple "+t.String())
	}
	d.graph.Add(t)
	return nil
}

// AssertionsAsSubject returns the statements whose subject is it.
func (d *Document) AssertionsAsSubject(it Item) []rdf.Triple {
	return d.graph.Match(TermOf(it), rdf.Term{}, rdf.Term{})
}

// AssertionsAsObject returns the statements whose object is it.
func (d *Document) AssertionsAsObject(it Item) []rdf.Triple {
	return d.graph.Match(rdf.Term{}, rdf.Term{}, TermOf(it))
}

// RemoveAllAssertions deletes every statement mentioning it and returns how
// many were removed.
func (d *Document) RemoveAllAssertions(it Item) int {
	return d.removeAssertionsOf(it.ID())
}

func (d *Document) removeAssertionsOf(id string) int {
	term := rdf.IRI(id)
	n := len(d.graph.RemoveAll(d.graph.Match(term, rdf.Term{}, rdf.Term{})))
	n += len(d.graph.RemoveAll(d.graph.Match(rdf.Term{}, rdf.Term{}, term)))
	return n
}

// AddLinguisticAct records that it is used, in a linguistic act, to refer
// to reference and/or to express meaning. Zero terms are omitted; agent,
// when set, is credited with the act. The act node is returned.
func (d *Document) AddLinguisticAct(it Item, reference, meaning, agent rdf.Term) (rdf.Term, error) {
	if !d.owns(it) {
		return rdf.Term{}, errors.NewWrongDocument("addLinguisticAct", itemID(it))
	}
	item := TermOf(it)
	act := d.graph.NewBlank()

	d.graph.AddAll(
		rdf.T(act, rdf.Type, rdf.LinguisticAct),
		rdf.T(act, rdf.HasInformationEntity, item),
		rdf.T(act, rdf.GeneratedAtTime, rdf.TypedLiteral(d.now().UTC().Format(time.RFC3339), rdf.XSDDateTime)),
	)
	if !reference.IsZero() {
		d.graph.AddAll(
			rdf.T(act, rdf.HasReference, reference),
			rdf.T(item, rdf.Denotes, reference),
		)
	}
	if !meaning.IsZero() {
		d.graph.AddAll(
			rdf.T(act, rdf.HasMeaning, meaning),
			rdf.T(item, rdf.HasInterpretant, meaning),
		)
	}
	if !reference.IsZero() && !meaning.IsZero() {
		d.graph.Add(rdf.T(reference, rdf.HasConceptualization, meaning))
	}
	if !agent.IsZero() {
		d.graph.Add(rdf.T(act, rdf.WasAttributedTo, agent))
	}
	return act, nil
}

// LinguisticActs returns the act nodes whose information entity is it.
func (d *Document) LinguisticActs(it Item) []rdf.Term {
	var acts []rdf.Term
	for _, act := range d.graph.Subjects(rdf.HasInformationEntity, TermOf(it)) {
		if d.graph.Has(rdf.T(act, rdf.Type, rdf.LinguisticAct)) {
			acts = append(acts, act)
		}
	}
	return acts
}

// RemoveLinguisticActs deletes the linguistic acts of it. The derived
// denotes, hasInterpretant and hasConceptualization statements go too,
// unless a remaining act still supports them. It returns the number of
// acts removed.
func (d *Document) RemoveLinguisticActs(it Item) int {
	item := TermOf(it)
	acts := d.LinguisticActs(it)
	for _, act := range acts {
		refs := d.graph.Objects(act, rdf.HasReference)
		meanings := d.graph.Objects(act, rdf.HasMeaning)
		d.graph.RemoveAll(d.graph.Match(act, rdf.Term{}, rdf.Term{}))

		for _, ref := range refs {
			if !d.supported(rdf.HasReference, ref, item) {
				d.graph.Remove(rdf.T(item, rdf.Denotes, ref))
			}
		}
		for _, meaning := range meanings {
			if !d.supported(rdf.HasMeaning, meaning, item) {
				d.graph.Remove(rdf.T(item, rdf.HasInterpretant, meaning))
			}
			for _, ref := range refs {
				if !d.supportsConceptualization(ref, meaning) {
					d.graph.Remove(rdf.T(ref, rdf.HasConceptualization, meaning))
				}
			}
		}
	}
	return len(acts)
}

// supported reports whether a remaining act about item links it to value
// through predicate.
func (d *Document) supported(predicate, value, item rdf.Term) bool {
	for _, act := range d.graph.Subjects(predicate, value) {
		if d.graph.Has(rdf.T(act, rdf.HasInformationEntity, item)) {
			return true
		}
	}
	return false
}

func (d *Document) supportsConceptualization(ref, meaning rdf.Term) bool {
	for _, act := range d.graph.Subjects(rdf.HasReference, ref) {
		if d.graph.Has(rdf.T(act, rdf.HasMeaning, meaning)) {
			return true
		}
	}
	return false
}
