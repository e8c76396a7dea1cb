// Package levels turns a user's content count into levels, milestones and
// recommendation entitlements.
package levels

import "fmt"

const (
	// UnlockThreshold is the content count at which book recommendations unlock.
	UnlockThreshold = 10
	// MilestoneStep is the distance between milestones.
	MilestoneStep = 10
)

// Level is one level per stored item.
func Level(count int) int {
	if count < 0 {
		return 0
	}
	return count
}

// Milestone rounds count down to a multiple of MilestoneStep; 0 below the threshold.
func Milestone(count int) int {
	if count < UnlockThreshold {
		return 0
	}
	return (count / MilestoneStep) * MilestoneStep
}

// NextMilestone is the next milestone strictly above count.
func NextMilestone(count int) int {
	if count < UnlockThreshold {
		return UnlockThreshold
	}
	return Milestone(count) + MilestoneStep
}

// Remaining is the number of items still needed to reach the next milestone.
func Remaining(count int) int {
	return NextMilestone(count) - Level(count)
}

func Unlocked(count int) bool {
	return count >= UnlockThreshold
}

// Entitlement is the total number of distinct books a user may hold at milestone.
func Entitlement(milestone, perMilestone int) int {
	if milestone < UnlockThreshold || perMilestone < 1 {
		return 0
	}
	return (milestone / MilestoneStep) * perMilestone
}

// Progress is the level summary shown on the dashboard.
type Progress struct {
	Level           int    `json:"level"`
	Milestone       int    `json:"milestone"`
	NextMilestone   int    `json:"next_milestone"`
	Remaining       int    `json:"remaining"`
	UnlockThreshold int    `json:"unlock_threshold"`
	Percent         int    `json:"percent"`
	Unlocked        bool   `json:"unlocked"`
	Message         string `json:"message"`
	NextMessage     string `json:"next_message,omitempty"`
}

var levelMessages = map[int]string{
	1:  "Great start! 🌟",
	2:  "Keep going! 💪",
	3:  "You're on fire! 🔥",
	4:  "Awesome progress! ✨",
	5:  "Halfway there! 🚀",
	6:  "Fantastic! 🎉",
	7:  "Almost there! 💎",
	8:  "So close! 🎯",
	9:  "One more to go! 🏆",
	10: "🎊 LEVEL 10! Your first book recommendation awaits! 📚",
}

// Message is the encouragement line for a level.
func Message(level int) string {
	if msg, ok := levelMessages[level]; ok {
		return msg
	}
	if level > UnlockThreshold {
		return fmt.Sprintf("Level %d! You're a content master! 🌟", level)
	}
	return "Start your journey! 🚀"
}

// ProgressFor builds the Progress summary for a content count.
func ProgressFor(count int) Progress {
	level := Level(count)

	percent := level * 100 / UnlockThreshold
	if percent > 100 {
		percent = 100
	}

	p := Progress{
		Level:           level,
		Milestone:       Milestone(count),
		NextMilestone:   NextMilestone(count),
		Remaining:       Remaining(count),
		UnlockThreshold: UnlockThreshold,
		Percent:         percent,
		Unlocked:        Unlocked(count),
		Message:         Message(level),
	}
	if level > 0 && level < UnlockThreshold {
		p.NextMessage = Message(level + 1)
	}
	return p
}
