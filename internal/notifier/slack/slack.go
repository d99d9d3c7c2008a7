package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/metrics"
	"github.com/mauv0809/cricket-stats/internal/notifier"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendManOfTheMatch announces the winner for date and returns the message timestamp.
func (s *Notifier) SendManOfTheMatch(ctx context.Context, motm *stats.ManOfTheMatch, date time.Time, dryRun bool) (string, error) {
	msg := s.formatManOfTheMatch(motm, date)
	_, ts, err := s.sendMessage(ctx, msg, dryRun)
	return ts, err
}

// SendRankings posts the ranking board to the channel.
func (s *Notifier) SendRankings(ctx context.Context, entries []player.RankEntry, dryRun bool) error {
	msg := s.formatRankings(entries)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// FormatRankingsResponse formats the ranking board for a slash command response.
func (s *Notifier) FormatRankingsResponse(entries []player.RankEntry) (any, error) {
	return s.formatRankings(entries), nil
}

// FormatPlayerCardResponse formats one player's career for a slash command response.
func (s *Notifier) FormatPlayerCardResponse(p *player.Profile) (any, error) {
	return s.formatPlayerCard(p), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func (s *Notifier) formatManOfTheMatch(motm *stats.ManOfTheMatch, date time.Time) slack.Message {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🏏 Man of the Match 🏏", true, false))

	text := fmt.Sprintf("*%s* on %s", motm.Player.Name, date.Format("Monday 02 Jan 2006"))
	details := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Runs*\n%d", motm.Runs), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Wickets*\n%d", motm.Wickets), false, false),
	}, nil)

	footer := slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match score: %d", motm.Score), false, false),
	)
	return slack.NewBlockMessage(header, details, footer)
}

// formatRankings creates the ranking board, best average first.
func (s *Notifier) formatRankings(entries []player.RankEntry) slack.Message {
	blocks := make([]slack.Block, 0, len(entries)+1)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Batting Rankings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players registered yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		text := fmt.Sprintf("%d. %s %s\n> Avg: %.2f | Runs: %d | Matches: %d",
			entry.Rank,
			medal,
			entry.Name,
			entry.AverageRuns,
			entry.TotalRuns,
			entry.TotalMatches,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerCard creates a message with one player's career.
func (s *Notifier) formatPlayerCard(p *player.Profile) slack.Message {
	header := fmt.Sprintf("🏏 %s 🏏", p.Name)
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
	}

	career := p.Scores.Career
	text := fmt.Sprintf("> *Runs*: %s\n> *Balls*: %s\n> *Wickets*: %s\n> *Matches*: %d",
		orZero(career.Runs),
		orZero(career.Balls),
		orZero(career.Wickets),
		len(p.Scores.Runs),
	)
	if career.Rank > 0 {
		text += fmt.Sprintf("\n> *Rank*: %d", career.Rank)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	if len(p.Scores.LastFour) > 0 {
		recent := "Last four: " + strings.Join(p.Scores.LastFour, ", ")
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", recent, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player is not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
