package artifacts

import (
	"fmt"

	"github.com/google/uuid"
)

// Payload is one of the six artifact document bodies. Normalize fills
// defaults (fresh item ids, persona/title fallbacks) and rejects item
// types outside their closed sets before anything reaches the store.
type Payload interface {
	Normalize() error
}

// Kind binds a URL path to its table and payload constructor.
type Kind struct {
	Path  string
	Table string
	Label string
	New   func() Payload
}

var Kinds = []Kind{
	{Path: "problem-trees", Table: "problem_trees", Label: "Problem tree", New: func() Payload { return &ProblemTreePayload{} }},
	{Path: "empathy-maps", Table: "empathy_maps", Label: "Empathy map", New: func() Payload { return &EmpathyMapPayload{} }},
	{Path: "story-maps", Table: "story_maps", Label: "Story map", New: func() Payload { return &StoryMapPayload{} }},
	{Path: "ideas-boards", Table: "ideas_boards", Label: "Ideas board", New: func() Payload { return &IdeasBoardPayload{} }},
	{Path: "feedback", Table: "feedback", Label: "Feedback", New: func() Payload { return &FeedbackPayload{} }},
	{Path: "expectations", Table: "expectations", Label: "Expectations", New: func() Payload { return &ExpectationsPayload{} }},
}

type ProblemTreeItem struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Type     string  `json:"type"`
	ParentID *string `json:"parent_id"`
}

type ProblemTreePayload struct {
	CoreProblem string            `json:"core_problem"`
	Items       []ProblemTreeItem `json:"items"`
}

func (p *ProblemTreePayload) Normalize() error {
	if p.Items == nil {
		p.Items = []ProblemTreeItem{}
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		switch it.Type {
		case "cause", "effect", "problem":
		default:
			return fmt.Errorf("invalid problem tree item type %q", it.Type)
		}
	}
	return nil
}

type EmpathyMapPayload struct {
	PersonaName string   `json:"persona_name"`
	Says        []string `json:"says"`
	Thinks      []string `json:"thinks"`
	Does        []string `json:"does"`
	Feels       []string `json:"feels"`
}

func (p *EmpathyMapPayload) Normalize() error {
	if p.PersonaName == "" {
		p.PersonaName = "User"
	}
	if p.Says == nil {
		p.Says = []string{}
	}
	if p.Thinks == nil {
		p.Thinks = []string{}
	}
	if p.Does == nil {
		p.Does = []string{}
	}
	if p.Feels == nil {
		p.Feels = []string{}
	}
	return nil
}

type StoryItem struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Type   string `json:"type"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

type StoryMapPayload struct {
	Title string      `json:"title"`
	Items []StoryItem `json:"items"`
}

func (p *StoryMapPayload) Normalize() error {
	if p.Title == "" {
		p.Title = "User Journey"
	}
	if p.Items == nil {
		p.Items = []StoryItem{}
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		switch it.Type {
		case "activity", "task", "story":
		default:
			return fmt.Errorf("invalid story map item type %q", it.Type)
		}
	}
	return nil
}

type IdeaCard struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Votes    int    `json:"votes"`
	Color    string `json:"color"`
}

type IdeasBoardPayload struct {
	Ideas []IdeaCard `json:"ideas"`
}

func (p *IdeasBoardPayload) Normalize() error {
	if p.Ideas == nil {
		p.Ideas = []IdeaCard{}
	}
	for i := range p.Ideas {
		card := &p.Ideas[i]
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		if card.Category == "" {
			card.Category = "general"
		}
		if card.Color == "" {
			card.Color = "#FFFFFF"
		}
	}
	return nil
}

type FeedbackItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type FeedbackPayload struct {
	Items []FeedbackItem `json:"items"`
}

func (p *FeedbackPayload) Normalize() error {
	if p.Items == nil {
		p.Items = []FeedbackItem{}
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		switch it.Type {
		case "like", "wish", "whatif":
		default:
			return fmt.Errorf("invalid feedback item type %q", it.Type)
		}
	}
	return nil
}

type ExpectationItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	Priority *int   `json:"priority"`
}

type ExpectationsPayload struct {
	Items []ExpectationItem `json:"items"`
}

func (p *ExpectationsPayload) Normalize() error {
	if p.Items == nil {
		p.Items = []ExpectationItem{}
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		switch it.Type {
		case "goal", "constraint", "success":
		default:
			return fmt.Errorf("invalid expectation item type %q", it.Type)
		}
		if it.Priority == nil {
			one := 1
			it.Priority = &one
		}
	}
	return nil
}
