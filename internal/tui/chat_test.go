package tui

import (
	"context"
	"testing"

	"github.com/budgetiq/budgetiq/internal/api"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedAdvisor struct {
	reply string
	err   error
	asked []string
}

func (s *scriptedAdvisor) Chat(_ context.Context, message string) (string, error) {
	s.asked = append(s.asked, message)
	return s.reply, s.err
}

func typeString(m ChatModel, s string) ChatModel {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(ChatModel)
	}
	return m
}

func TestChatModel_SendAndReply(t *testing.T) {
	advisor := &scriptedAdvisor{reply: "You spent most on Rent this month."}
	m := NewChatModel(context.Background(), advisor)

	m = typeString(m, "where does my money go?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ChatModel)

	require.True(t, m.waiting)
	require.NotNil(t, cmd)

	// Drive the batched command until the reply message surfaces.
	msg := drainForReply(t, cmd)
	updated, _ = m.Update(msg)
	m = updated.(ChatModel)

	assert.False(t, m.waiting)
	require.Len(t, m.lines, 2)
	assert.True(t, m.lines[0].fromUser)
	assert.Equal(t, "where does my money go?", m.lines[0].text)
	assert.Contains(t, m.lines[1].text, "Rent")
	assert.Equal(t, []string{"where does my money go?"}, advisor.asked)
}

func TestChatModel_EmptyInputIsIgnored(t *testing.T) {
	advisor := &scriptedAdvisor{}
	m := NewChatModel(context.Background(), advisor)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ChatModel)

	assert.False(t, m.waiting)
	assert.Nil(t, cmd)
	assert.Empty(t, advisor.asked)
}

func TestChatModel_NetworkErrorGetsConnectionCopy(t *testing.T) {
	advisor := &scriptedAdvisor{err: &api.Error{Kind: api.KindNetworkUnavailable}}
	m := NewChatModel(context.Background(), advisor)

	m = typeString(m, "hello")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ChatModel)

	msg := drainForReply(t, cmd)
	updated, _ = m.Update(msg)
	m = updated.(ChatModel)

	require.Len(t, m.lines, 2)
	assert.Contains(t, m.lines[1].text, "check your connection")
}

// drainForReply executes a possibly-batched command tree and returns the
// first replyMsg it produces.
func drainForReply(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case replyMsg:
			return msg
		}
	}
	t.Fatal("no replyMsg produced")
	return nil
}
