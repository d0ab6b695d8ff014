package rdf

// Namespace bases.
const (
	RDFNS         = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	OWLNS         = "http://www.w3.org/2002/07/owl#"
	XSDNS         = "http://www.w3.org/2001/XMLSchema#"
	EARMARKNS     = "http://www.essepuntato.it/2008/12/earmark#"
	CollectionsNS = "http://swan.mindinformatics.org/ontologies/1.2/collections/"
	SemioticsNS   = "http://www.ontologydesignpatterns.org/cp/owl/semiotics.owl#"
	ProvNS        = "http://www.w3.org/ns/prov#"
)

// XML Schema datatypes.
const (
	XSDString             = XSDNS + "string"
	XSDAnyURI             = XSDNS + "anyURI"
	XSDNonNegativeInteger = XSDNS + "nonNegativeInteger"
	XSDInteger            = XSDNS + "integer"
	XSDInt                = XSDNS + "int"
	XSDDateTime           = XSDNS + "dateTime"
)

// RDF and OWL terms.
var (
	Type               = IRI(RDFNS + "type")
	OWLOntology        = IRI(OWLNS + "Ontology")
	OWLThing           = IRI(OWLNS + "Thing")
	OWLNamedIndividual = IRI(OWLNS + "NamedIndividual")
)

// EARMARK classes.
var (
	Docuverse         = IRI(EARMARKNS + "Docuverse")
	StringDocuverse   = IRI(EARMARKNS + "StringDocuverse")
	URIDocuverse      = IRI(EARMARKNS + "URIDocuverse")
	Range             = IRI(EARMARKNS + "Range")
	PointerRange      = IRI(EARMARKNS + "PointerRange")
	XPathRange        = IRI(EARMARKNS + "XPathRange")
	XPathPointerRange = IRI(EARMARKNS + "XPathPointerRange")
	MarkupItem        = IRI(EARMARKNS + "MarkupItem")
	Element           = IRI(EARMARKNS + "Element")
	Attribute         = IRI(EARMARKNS + "Attribute")
	Comment           = IRI(EARMARKNS + "Comment")
)

// EARMARK properties.
var (
	HasContent           = IRI(EARMARKNS + "hasContent")
	HasGeneralIdentifier = IRI(EARMARKNS + "hasGeneralIdentifier")
	HasNamespace         = IRI(EARMARKNS + "hasNamespace")
	Begins               = IRI(EARMARKNS + "begins")
	Ends                 = IRI(EARMARKNS + "ends")
	RefersTo             = IRI(EARMARKNS + "refersTo")
	HasXPathContext      = IRI(EARMARKNS + "hasXPathContext")
)

// Collections ontology classes and properties.
var (
	Collection   = IRI(CollectionsNS + "Collection")
	Set          = IRI(CollectionsNS + "Set")
	Bag          = IRI(CollectionsNS + "Bag")
	List         = IRI(CollectionsNS + "List")
	Item         = IRI(CollectionsNS + "Item")
	ListItem     = IRI(CollectionsNS + "ListItem")
	ElementProp  = IRI(CollectionsNS + "element")
	ItemProp     = IRI(CollectionsNS + "item")
	FirstItem    = IRI(CollectionsNS + "firstItem")
	LastItem     = IRI(CollectionsNS + "lastItem")
	NextItem     = IRI(CollectionsNS + "nextItem")
	PreviousItem = IRI(CollectionsNS + "previousItem")
	ItemContent  = IRI(CollectionsNS + "itemContent")
	Size         = IRI(CollectionsNS + "size")
	FollowedBy   = IRI(CollectionsNS + "followedBy")
	PrecededBy   = IRI(CollectionsNS + "precededBy")
)

// Semiotics and provenance terms used by linguistic acts.
var (
	LinguisticAct        = IRI(SemioticsNS + "LinguisticAct")
	Denotes              = IRI(SemioticsNS + "denotes")
	HasConceptualization = IRI(SemioticsNS + "hasConceptualization")
	HasInterpretant      = IRI(SemioticsNS + "hasInterpretant")
	HasMeaning           = IRI(SemioticsNS + "hasMeaning")
	HasInformationEntity = IRI(SemioticsNS + "hasInformationEntity")
	HasReference         = IRI(SemioticsNS + "hasReference")
	WasAttributedTo      = IRI(ProvNS + "wasAttributedTo")
	GeneratedAtTime      = IRI(ProvNS + "generatedAtTime")
)
