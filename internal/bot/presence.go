package bot

import (
	"time"
)

// presenceRotation is the set of statuses Mars cycles through.
var presenceRotation = []string{
	"collecting dream dust ✨",
	"foraging in the quiet woods 🌿",
	"stirring the cauldron 🔮",
	"tending the little shop 🏪",
	"napping, probably 🌙",
}

const presenceInterval = 5 * time.Minute

// rotatePresence updates the status on a timer until stop is closed. The
// first status is set immediately so the bot never sits blank.
func (b *Bot) rotatePresence(stop <-chan struct{}) {
	ticker := time.NewTicker(presenceInterval)
	defer ticker.Stop()

	idx := 0
	set := func() {
		if err := b.session.UpdateCustomStatus(presenceRotation[idx]); err != nil {
			b.log.WithError(err).Warn("presence update failed")
		}
		idx = (idx + 1) % len(presenceRotation)
	}

	set()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			set()
		}
	}
}
