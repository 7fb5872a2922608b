package llms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/apiblocks/pkg/ir"
)

func TestRender(t *testing.T) {
	create := &ir.IROperation{
		ID: "chat.createChatCompletion", Tag: "Chat", Method: "POST", Path: "/chat/completions",
		Summary: "Create a completion", Location: "Chat/POST-chat-completions.html",
	}
	list := &ir.IROperation{
		ID: "chat.listChatCompletions", Tag: "Chat", Method: "GET", Path: "/chat/completions",
		Description: "Lists\n  stored completions.", Location: "Chat/GET-chat-completions.html",
	}
	health := &ir.IROperation{
		ID: "untagged.get_health", Tag: ir.UntaggedTag, Method: "GET", Path: "/health",
		Location: "untagged/GET-health.html",
	}
	in := &ir.IR{
		Fingerprint: "0123456789ab",
		ByTag: map[string][]*ir.IROperation{
			"Chat":         {list, create},
			ir.UntaggedTag: {health},
		},
		Operations: []*ir.IROperation{list, create, health},
	}

	data, err := NewGenerator().Render(in)
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "# "))
	assert.Contains(t, doc, "\n## OPTIONAL\n")
	assert.Contains(t, doc, "- **Chat**: 2 operations. Start with [GET /chat/completions](/Chat/GET-chat-completions.html): First available operation")
	assert.Contains(t, doc, "- **untagged**: 1 operation. Start with")
	assert.Contains(t, doc, "- [chat.listChatCompletions](/Chat/GET-chat-completions.html): GET /chat/completions: Lists stored completions.")
	assert.Contains(t, doc, "- [untagged.get_health](/untagged/GET-health.html): GET /health\n")

	// tags come before the optional list
	assert.Less(t, strings.Index(doc, "## Tags"), strings.Index(doc, "## OPTIONAL"))
}
