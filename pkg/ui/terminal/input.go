package terminal

import (
	"sync"

	"github.com/chzyer/readline"
)

// Input holds the line most recently read from the terminal until the
// widget consumes it.
type Input struct {
	mu    sync.Mutex
	value string
	rl    *readline.Instance
}

func NewInput(rl *readline.Instance) *Input {
	return &Input{rl: rl}
}

// Set stores a line typed by the user.
func (i *Input) Set(line string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = line
}

func (i *Input) Value() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.value
}

func (i *Input) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = ""
}

// Focus redraws the prompt so the user can type the next question.
func (i *Input) Focus() {
	if i.rl != nil {
		i.rl.Refresh()
	}
}
