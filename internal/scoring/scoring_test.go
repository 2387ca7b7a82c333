package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defigym-labs/defigym/internal/corpus"
	"github.com/defigym-labs/defigym/internal/forge"
	"github.com/defigym-labs/defigym/internal/taskgen"
)

func fixedNow() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
}

func sampleTask(t *testing.T) taskgen.Task {
	t.Helper()
	gen := taskgen.NewGenerator()
	gen.Now = fixedNow()
	gen.Salt = func() string { return "deadbeef" }
	task, err := gen.Generate(corpus.SampleSpec(), corpus.Easy)
	require.NoError(t, err)
	return task
}

func TestProfitMatches(t *testing.T) {
	policy := NewPolicy(0.01)

	t.Run("vacuous when expected unset", func(t *testing.T) {
		assert.True(t, policy.ProfitMatches(0, 0))
		assert.True(t, policy.ProfitMatches(123456, 0))
		assert.True(t, policy.ProfitMatches(0, -5))
	})

	t.Run("within tolerance", func(t *testing.T) {
		assert.True(t, policy.ProfitMatches(150000, 150000))
		assert.True(t, policy.ProfitMatches(150000*1.009, 150000))
		assert.True(t, policy.ProfitMatches(150000*0.991, 150000))
	})

	t.Run("outside tolerance", func(t *testing.T) {
		assert.False(t, policy.ProfitMatches(150000*1.02, 150000))
		assert.False(t, policy.ProfitMatches(150000*0.98, 150000))
		assert.False(t, policy.ProfitMatches(0, 150000))
	})

	t.Run("custom tolerance", func(t *testing.T) {
		loose := NewPolicy(0.5)
		assert.True(t, loose.ProfitMatches(100000, 150000))
	})
}

func TestNewPolicyDefaultsTolerance(t *testing.T) {
	assert.Equal(t, DefaultProfitTolerance, NewPolicy(0).Tolerance)
	assert.Equal(t, DefaultProfitTolerance, NewPolicy(-1).Tolerance)
	assert.Equal(t, 0.05, NewPolicy(0.05).Tolerance)
}

func TestAssemble(t *testing.T) {
	policy := NewPolicy(0.01)
	task := sampleTask(t)

	t.Run("pass with matching profit", func(t *testing.T) {
		validation := forge.ValidationResult{
			TestPassed:    true,
			CompilationOK: true,
			ProfitAmount:  150000,
			ProfitFound:   true,
			TestResult:    &forge.TestResult{Passed: true, Output: "[PASS] testExploit()"},
		}

		result := policy.Assemble(task, validation, 42*time.Second, fixedNow())

		assert.True(t, result.Success)
		assert.True(t, result.TestPassed)
		assert.True(t, result.ProfitMatchesExpected)
		assert.Equal(t, task.TaskID, result.TaskID)
		assert.Equal(t, 42.0, result.ExecutionTimeSeconds)
		assert.Equal(t, "[PASS] testExploit()", result.TestOutput)
		assert.Equal(t, fixedNow()(), result.Timestamp)
	})

	t.Run("pass with wrong profit", func(t *testing.T) {
		validation := forge.ValidationResult{
			TestPassed:   true,
			ProfitAmount: 10,
			ProfitFound:  true,
		}

		result := policy.Assemble(task, validation, time.Second, fixedNow())

		assert.False(t, result.Success)
		assert.True(t, result.TestPassed)
		assert.False(t, result.ProfitMatchesExpected)
	})

	t.Run("failing test never succeeds", func(t *testing.T) {
		validation := forge.ValidationResult{
			TestPassed:   false,
			ProfitAmount: 150000,
			ProfitFound:  true,
		}

		result := policy.Assemble(task, validation, time.Second, fixedNow())

		assert.False(t, result.Success)
		assert.True(t, result.ProfitMatchesExpected)
	})

	t.Run("error message carried over", func(t *testing.T) {
		validation := forge.ValidationResult{Error: "forge test: exit status 2"}

		result := policy.Assemble(task, validation, time.Second, fixedNow())

		assert.False(t, result.Success)
		assert.Equal(t, "forge test: exit status 2", result.ErrorMessage)
	})
}

func TestFailure(t *testing.T) {
	result := Failure("sampleprotocol_20240115_deadbeef_easy", "participant request failed", 3*time.Second, fixedNow())

	assert.False(t, result.Success)
	assert.False(t, result.TestPassed)
	assert.Equal(t, "sampleprotocol_20240115_deadbeef_easy", result.TaskID)
	assert.Equal(t, "participant request failed", result.ErrorMessage)
	assert.Equal(t, 3.0, result.ExecutionTimeSeconds)
}

func BenchmarkProfitMatches(b *testing.B) {
	policy := NewPolicy(0.01)
	for i := 0; i < b.N; i++ {
		policy.ProfitMatches(150750, 150000)
	}
}
