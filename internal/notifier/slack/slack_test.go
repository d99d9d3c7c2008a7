package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, ts, err := notifier.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.Equal(t, "ts123", ts)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendManOfTheMatch_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts-motm", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	motm := &stats.ManOfTheMatch{Player: &player.Profile{Name: "Bumrah"}, Runs: 12, Wickets: 4, Score: 52}
	ts, err := notifier.SendManOfTheMatch(context.Background(), motm, time.Now(), false)

	require.NoError(t, err)
	assert.Equal(t, "ts-motm", ts)
	assert.True(t, postMessageCalled)
}

func TestFormatManOfTheMatch(t *testing.T) {
	motm := &stats.ManOfTheMatch{Player: &player.Profile{Name: "Bumrah"}, Runs: 12, Wickets: 4, Score: 52}
	client := &Notifier{channelID: "C123"}
	msg := client.formatManOfTheMatch(motm, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC))
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🏏 Man of the Match 🏏", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "*Bumrah* on Sunday 09 Jun 2024", details.Text.Text)
	require.Len(t, details.Fields, 2)
	assert.Equal(t, "*Runs*\n12", details.Fields[0].Text)
	assert.Equal(t, "*Wickets*\n4", details.Fields[1].Text)

	footer, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	el, ok := footer.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Match score: 52", el.Text)
}

func TestFormatRankings(t *testing.T) {
	t.Run("lists players in rank order", func(t *testing.T) {
		entries := []player.RankEntry{
			{Name: "Kohli", Rank: 1, AverageRuns: 55.5, TotalRuns: 111, TotalMatches: 2},
			{Name: "Rohit", Rank: 2, AverageRuns: 20, TotalRuns: 20, TotalMatches: 1},
		}
		client := &Notifier{}
		msg := client.formatRankings(entries)
		require.Len(t, msg.Blocks.BlockSet, 3)

		first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "1. 🥇 Kohli\n> Avg: 55.50 | Runs: 111 | Matches: 2", first.Text.Text)
	})

	t.Run("empty population", func(t *testing.T) {
		client := &Notifier{}
		msg := client.formatRankings(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No players registered yet.", section.Text.Text)
	})
}

func TestFormatPlayerCard(t *testing.T) {
	p := &player.Profile{
		Name: "Kohli",
		Scores: player.Scores{
			Runs:     []player.MatchEntry{{Value: "40"}, {Value: "2"}},
			LastFour: []string{"40", "2"},
			Career:   player.CareerAggregate{Runs: "42", Wickets: "1", Rank: 3},
		},
	}
	client := &Notifier{}
	msg := client.formatPlayerCard(p)
	require.Len(t, msg.Blocks.BlockSet, 3)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "> *Runs*: 42\n> *Balls*: 0\n> *Wickets*: 1\n> *Matches*: 2\n> *Rank*: 3", section.Text.Text)
}

func TestFormatPlayerNotFound(t *testing.T) {
	client := &Notifier{}
	msg := client.formatPlayerNotFound("Sachin")
	require.Len(t, msg.Blocks.BlockSet, 1)
	section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "*Sachin*")
}
