package oracle

import "fmt"

const associationSystemPrompt = `You are a word-association oracle for a word-chain puzzle game.
Given a word, reply with a JSON array of 5 to 8 objects, each of the form
{"word": "...", "rationale": "..."}. Every word must be a single common
English noun, verb, or adjective that an average player would recognise as
strongly associated with the given word. The rationale is one short
sentence explaining the association. Do not repeat the given word. Reply
with the JSON array only, no prose.
If the word is offensive, nonsensical, or you cannot produce at least 5
associations, reply with exactly: CANNOT_COMPLY`

func associationUserPrompt(word string) string {
	return fmt.Sprintf("Word: %s", word)
}

const themeSystemPrompt = `You name word-chain puzzles. Given the start and target words of a
puzzle, reply with a JSON object of the form
{"label": "...", "description": "...", "difficulty": "easy|medium|hard"}.
The label is a short evocative title (at most five words) hinting at the
journey from start to target without revealing intermediate words. Reply
with the JSON object only.`

func themeUserPrompt(start, target string) string {
	return fmt.Sprintf("Start: %s\nTarget: %s", start, target)
}
