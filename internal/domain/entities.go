package domain

// Vector is a fixed-dimension embedding. All vectors stored in one
// collection share the same dimension.
type Vector []float32

// Payload carries the text and provenance of a stored point. Book chunks
// fill Title/Index, chat memory fills Timestamp/Weight.
type Payload struct {
	Text      string  `json:"text"`
	Source    string  `json:"source,omitempty"`
	Title     string  `json:"title,omitempty"`
	Index     int     `json:"index,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// Point is a stored vector with its payload. Points are immutable once
// written; upserting the same ID overwrites the whole point.
type Point struct {
	ID      string
	Vector  Vector
	Payload Payload
}

// SearchHit is one nearest-neighbor result. Score is cosine similarity,
// higher is more similar.
type SearchHit struct {
	ID      string
	Score   float64
	Payload Payload
}

// Essence is an aggregate view over stored chat memory: how many points
// exist, their component-wise mean vector, and a few recent samples.
// It is derived on demand and never written back.
type Essence struct {
	Count      int
	MeanVector Vector
	Samples    []string
}

// Prompt is the system/user message pair sent to the language model.
type Prompt struct {
	System string
	User   string
}

const (
	SourceBook = "book"
	SourceChat = "chat"
)
