// Package stream defines the server-sent event protocol of the chat
// endpoint and the encoder that frames events onto the response.
package stream

import "github.com/plannerhq/assistant/internal/links"

// Event type constants. Consumers treat unknown types as ignorable.
const (
	TypeThinkingStart = "thinking_start"
	TypeThinking      = "thinking"
	TypeThinkingEnd   = "thinking_end"
	TypeAnswerStart   = "answer_start"
	TypeAnswer        = "answer"
	TypeLinks         = "links"
	TypeError         = "error"
	TypeDone          = "done"
)

// Event is one wire event. Exactly one of the optional fields is populated
// depending on Type.
type Event struct {
	Type    string       `json:"type"`
	Content string       `json:"content,omitempty"`
	Message string       `json:"message,omitempty"`
	Links   []links.Link `json:"links,omitempty"`
}

func ThinkingStart() Event          { return Event{Type: TypeThinkingStart} }
func Thinking(content string) Event { return Event{Type: TypeThinking, Content: content} }
func ThinkingEnd() Event            { return Event{Type: TypeThinkingEnd} }
func AnswerStart() Event            { return Event{Type: TypeAnswerStart} }
func Answer(content string) Event   { return Event{Type: TypeAnswer, Content: content} }
func Links(list []links.Link) Event { return Event{Type: TypeLinks, Links: list} }
func ErrorEvent(msg string) Event   { return Event{Type: TypeError, Message: msg} }
func Done() Event                   { return Event{Type: TypeDone} }
