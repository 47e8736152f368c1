package forward

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMalformedReply = errors.New("malformed IDE reply: neither status nor error is set")

type replyKind int

const (
	replyStatus replyKind = iota + 1
	replyError
)

// reply is the IDE's answer to a tool call: either a status text or an error
// text reported by the IDE itself.
type reply struct {
	kind replyKind
	text string
}

func decodeReply(body []byte) (reply, error) {
	var raw struct {
		Status *string `json:"status"`
		Error  *string `json:"error"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return reply{}, fmt.Errorf("decoding IDE reply: %w", err)
	}

	switch {
	case raw.Error != nil:
		return reply{kind: replyError, text: *raw.Error}, nil
	case raw.Status != nil:
		return reply{kind: replyStatus, text: *raw.Status}, nil
	default:
		return reply{}, errMalformedReply
	}
}

func (r reply) result() Result {
	switch r.kind {
	case replyStatus:
		return TextResult(r.text)
	case replyError:
		return ErrorResult(r.text)
	default:
		return ErrorResult(unknownError)
	}
}
