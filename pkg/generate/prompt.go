package generate

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = `You are an AI assistant that creates mind maps from structured content.
Generate a mind map in JSON format with the following structure:
{
  "id": "root",
  "text": "Main Topic",
  "children": [
    {
      "id": "child1",
      "text": "Sub-topic 1",
      "children": [
        {
          "id": "child1-1",
          "text": "Detail 1",
          "children": []
        }
      ]
    }
  ]
}

Rules:
1. Create a hierarchical structure with main topics as children of the root
2. Each node should have a unique id, text content, and children array
3. Organize the content logically with 2-4 main branches
4. Each main branch should have 2-5 sub-branches
5. Keep text concise but descriptive
6. Return ONLY valid JSON, no additional text or formatting
7. Use the provided title as the root text if available`

// userPrompt embeds the content as a JSON string so quotes and newlines in
// the notes cannot break out of the prompt structure.
func userPrompt(req Request) string {
	content, _ := json.Marshal(req.Content)
	return fmt.Sprintf("Create a mind map from this content:\nTitle: %s\nContent: %s", req.RootTitle(), content)
}
