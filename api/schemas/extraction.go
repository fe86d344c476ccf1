package schemas

// -- Extraction Schemas --

// ExtractionKind selects what a read-type interaction pulls out of the page.
type ExtractionKind string

const (
	ExtractText       ExtractionKind = "text"
	ExtractAttributes ExtractionKind = "attributes"
	ExtractList       ExtractionKind = "list"
	ExtractArticle    ExtractionKind = "article"
)

// ExtractionSpec parameterizes a read interaction.
type ExtractionSpec struct {
	Kind ExtractionKind `json:"kind"`
	// Attributes limits attribute extraction to the named keys. Empty means
	// every attribute present on the node.
	Attributes []string `json:"attributes,omitempty"`
	// ItemSelector addresses the repeated children for list extraction,
	// relative to the resolved container.
	ItemSelector string `json:"item_selector,omitempty"`
	// MaxItems caps list extraction. Zero means no cap.
	MaxItems int `json:"max_items,omitempty"`
}

// ExtractionResult is the immutable record produced by a read interaction.
// Confidence is always populated; an empty value with a confidence attached
// is a valid outcome, distinct from a failure.
type ExtractionResult struct {
	// Text holds the extracted text for text and article kinds.
	Text string `json:"text,omitempty"`
	// Attributes holds the extracted attribute map, when requested.
	Attributes map[string]string `json:"attributes,omitempty"`
	// Items holds nested sub-results for repeated containers.
	Items []ExtractionResult `json:"items,omitempty"`
	// Confidence inherited from the resolution that located the source node.
	Confidence float64 `json:"confidence"`
	// Strategy that located the source node.
	Strategy Strategy `json:"strategy,omitempty"`
	// Provenance records how the value was obtained: matched selector index,
	// fallback tier, heuristic reasons.
	Provenance map[string]string `json:"provenance,omitempty"`
}

// Article is the structured payload of an article extraction, serialized
// into ExtractionResult provenance and items.
type Article struct {
	Title      string   `json:"title,omitempty"`
	Headings   []string `json:"headings,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Links      []Link   `json:"links,omitempty"`
}

// Link is one hyperlink harvested during article extraction.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}
