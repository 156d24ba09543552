package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRules(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	configText := `# provider rules
@Acme.com = ACME

Monthly Report = Reports
`

	// Act
	table, invalid := s.ParseRules(configText)

	// Assert
	assert.Empty(t, invalid)
	assert.Len(t, table.Rules, 2)
	assert.Equal(t, "@acme.com", table.Rules[0].Pattern)
	assert.Equal(t, "ACME", table.Rules[0].Label)
	assert.Equal(t, "monthly report", table.Rules[1].Pattern)
	assert.Equal(t, "Reports", table.Rules[1].Label)
}

func TestParseRules_InvalidLines(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	configText := "@acme.com = ACME\nno separator here\n= nolabel\nnopattern =\n"

	// Act
	table, invalid := s.ParseRules(configText)

	// Assert
	assert.Len(t, table.Rules, 1)
	assert.Len(t, invalid, 3)
	assert.Contains(t, invalid[0], "line 2")
	assert.Contains(t, invalid[1], "line 3")
	assert.Contains(t, invalid[2], "line 4")
}

func TestParseRules_Idempotent(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	configText := "@acme.com = ACME\nmonthly report = Reports\nbroken line\n"

	// Act
	first, firstInvalid := s.ParseRules(configText)
	second, secondInvalid := s.ParseRules(configText)

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, firstInvalid, secondInvalid)
}

func TestParseRules_LabelKeepsExtraSeparators(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()

	// Act
	table, invalid := s.ParseRules("@acme.com = A=B")

	// Assert
	assert.Empty(t, invalid)
	assert.Len(t, table.Rules, 1)
	assert.Equal(t, "A=B", table.Rules[0].Label)
}

func TestResolve_EmptyTableMatchesEverything(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("")

	// Act
	include, label := s.Resolve(table, "billing@acme.com", "Invoice")

	// Assert
	assert.True(t, include)
	assert.Equal(t, "", label)
}

func TestResolve_MissingSenderIsNeverDropped(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("@acme.com = ACME")

	// Act
	include, label := s.Resolve(table, "", "Invoice")

	// Assert
	assert.True(t, include)
	assert.Equal(t, "", label)
}

func TestResolve_AddressPattern(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("@acme.com = ACME")

	// Act
	include, label := s.Resolve(table, "Billing@ACME.com", "whatever")

	// Assert
	assert.True(t, include)
	assert.Equal(t, "ACME", label)
}

func TestResolve_AddressPatternMatchesEitherDirection(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("billing@acme.com extended = ACME")

	// Act: the configured pattern contains the sender
	include, label := s.Resolve(table, "billing@acme.com", "whatever")

	// Assert
	assert.True(t, include)
	assert.Equal(t, "ACME", label)
}

func TestResolve_SubjectPattern(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("monthly report = Reports")

	// Act
	include, label := s.Resolve(table, "someone@example.com", "Your Monthly Report is ready")

	// Assert
	assert.True(t, include)
	assert.Equal(t, "Reports", label)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("@acme.com = First\nreport = Second")

	// Act
	include, label := s.Resolve(table, "billing@acme.com", "Monthly Report")

	// Assert
	assert.True(t, include)
	assert.Equal(t, "First", label)
}

func TestResolve_NoMatch(t *testing.T) {
	// Arrange
	s := NewProviderMatcherService()
	table, _ := s.ParseRules("@acme.com = ACME")

	// Act
	include, label := s.Resolve(table, "news@other.org", "Newsletter")

	// Assert
	assert.False(t, include)
	assert.Equal(t, "", label)
}
