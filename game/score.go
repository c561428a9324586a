package game

// LinesPerLevel is the number of cleared lines between level steps.
const LinesPerLevel = 20

// baseScoreForLines is indexed by the number of rows cleared in one lock.
var baseScoreForLines = [...]int{0, 40, 100, 300, 1200}

// Score holds the monotone scoring counters.
type Score struct {
	Points int
	Lines  int
	Level  int
}

func newScore() Score {
	return Score{Level: 1}
}

// Award credits n rows cleared by one lock at the current level and reports
// whether the level went up.
func (s *Score) Award(n int) bool {
	if n <= 0 {
		return false
	}
	n = min(n, len(baseScoreForLines)-1)

	s.Points += s.Level * baseScoreForLines[n]
	s.Lines += n

	level := s.Lines/LinesPerLevel + 1
	if level > s.Level {
		s.Level = level
		return true
	}
	return false
}
