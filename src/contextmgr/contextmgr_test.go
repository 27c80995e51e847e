package contextmgr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillforge/quillforge/src/models"
)

func totalLength(msgs []models.Message) int {
	total := 0
	for _, m := range msgs {
		total += len(m.Content)
	}
	return total
}

func TestNew_RejectsInvalidBudget(t *testing.T) {
	_, err := New(0)
	var contextErr *models.ContextError
	assert.ErrorAs(t, err, &contextErr)

	_, err = New(-10)
	assert.ErrorAs(t, err, &contextErr)
}

func TestManageContext_UnderBudgetUnchanged(t *testing.T) {
	svc, err := New(1000)
	require.NoError(t, err)

	messages := []models.Message{
		models.SystemMessage("sys"),
		models.UserMessage("hello"),
		models.AssistantMessage("hi"),
	}

	result := svc.ManageContext(messages)
	assert.Equal(t, messages, result)
}

func TestManageContext_KeepsSystemAndRecent(t *testing.T) {
	svc, err := New(50)
	require.NoError(t, err)

	messages := []models.Message{
		models.SystemMessage("System"),                   // 6 chars, always kept
		models.UserMessage(strings.Repeat("x", 54)),      // too large to keep
		models.AssistantMessage("Short"),                 // 5 chars
		models.UserMessage("Recent"),                     // 6 chars, most recent
	}

	result := svc.ManageContext(messages)

	assert.LessOrEqual(t, totalLength(result), 50)

	contents := make([]string, 0, len(result))
	for _, m := range result {
		contents = append(contents, m.Content)
	}
	assert.Contains(t, contents, "System")
	assert.Contains(t, contents, "Recent")
}

func TestManageContext_StopsAtFirstOverflow(t *testing.T) {
	svc, err := New(20)
	require.NoError(t, err)

	// The middle message overflows; the older "tiny" message would fit on
	// its own but must not be kept once the walk has stopped.
	messages := []models.Message{
		models.UserMessage("tiny"),
		models.UserMessage(strings.Repeat("y", 30)),
		models.UserMessage("latest"),
	}

	result := svc.ManageContext(messages)

	require.Len(t, result, 1)
	assert.Equal(t, "latest", result[0].Content)
}

func TestManageContext_SystemNeverDropped(t *testing.T) {
	svc, err := New(10)
	require.NoError(t, err)

	messages := []models.Message{
		models.SystemMessage(strings.Repeat("s", 40)),
		models.UserMessage("question"),
	}

	result := svc.ManageContext(messages)

	// System messages stay even when they alone exceed the budget.
	require.NotEmpty(t, result)
	assert.Equal(t, models.RoleSystem, result[0].Role)
}

func TestManageContext_PreservesOriginalOrder(t *testing.T) {
	svc, err := New(30)
	require.NoError(t, err)

	messages := []models.Message{
		models.UserMessage(strings.Repeat("a", 100)), // dropped
		models.UserMessage("first"),
		models.SystemMessage("sys"),
		models.UserMessage("second"),
	}

	result := svc.ManageContext(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "first", result[0].Content)
	assert.Equal(t, "sys", result[1].Content)
	assert.Equal(t, "second", result[2].Content)
}

func TestManageContextForWindow_SmallerWindowWins(t *testing.T) {
	svc, err := New(10000)
	require.NoError(t, err)

	messages := []models.Message{
		models.UserMessage(strings.Repeat("a", 30)),
		models.UserMessage(strings.Repeat("b", 30)),
	}

	// 10-token window = 40 characters; only the newest message fits.
	result := svc.ManageContextForWindow(messages, 10)

	require.Len(t, result, 1)
	assert.Equal(t, strings.Repeat("b", 30), result[0].Content)
}
