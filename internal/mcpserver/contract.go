package mcpserver

// HowToPlayContract describes the word-chain puzzle rules for LLM
// consumers that guide or judge players.
const HowToPlayContract = `# Raido Word-Chain Puzzle

A puzzle is a pair of words: a **start** word and a **target** word.
The player's job is to get from start to target through a chain of
word associations.

## Rules

1. Each move names a word that is a direct association of the current
   word (something most people would connect with it: "water" -> "river",
   "river" -> "bank").
2. The chain begins at the start word and ends when the player names
   the target word as an association of their current word.
3. ` + "`min_steps`" + ` is the length of the chain the engine found when it
   built the puzzle. Shorter player solutions are possible and count as
   excellent play; the engine guarantees only that no *single-step*
   shortcut exists from any earlier point of its own chain.
4. Associations are judged by the same oracle that built the puzzle.
   Use the ` + "`get_associations`" + ` tool to check whether a candidate move
   is a recognized association of a word.

## Guiding players

- Never reveal the solution path (` + "`get_solution`" + ` output) to a player.
- Hints should point at a *category* ("think about places where the
  current word is found") rather than naming the next word.
- The theme label on the puzzle is a flavor hint, not a constraint:
  moves outside the theme are legal.
`
