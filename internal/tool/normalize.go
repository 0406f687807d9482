package tool

import (
	"strings"

	"github.com/tidwall/gjson"
)

// NoResponseText replaces an empty upstream answer
const NoResponseText = "No response received"

// responsesText extracts the text of a responses call. The aggregated
// output_text field is preferred; otherwise output_text content parts of
// the output items are joined.
func responsesText(body []byte) string {
	doc := gjson.ParseBytes(body)
	if text := doc.Get("output_text").String(); text != "" {
		return text
	}

	var parts []string
	doc.Get("output").ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, part gjson.Result) bool {
			if part.Get("type").String() == "output_text" {
				if t := part.Get("text").String(); t != "" {
					parts = append(parts, t)
				}
			}
			return true
		})
		return true
	})
	if len(parts) > 0 {
		return strings.Join(parts, "")
	}
	return NoResponseText
}

// chatText extracts the first choice's message content
func chatText(body []byte) string {
	if text := gjson.GetBytes(body, "choices.0.message.content").String(); text != "" {
		return text
	}
	return NoResponseText
}
