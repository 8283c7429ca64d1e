package action_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/herobrain/site/internal/platform/action"
)

type (
	testStructA struct{}
	testStructB struct{}
)

func TestMapper(t *testing.T) {
	t.Run("when no named action found return an error", func(t *testing.T) {
		mapper := &action.Mapper{}

		doer, err := mapper.Get("ComplexCalculation")

		require.ErrorContains(t, err, "no action found for: ComplexCalculation")
		require.Nil(t, doer)
	})

	t.Run("returns the saved function for a name", func(t *testing.T) {
		mapper := &action.Mapper{}
		mapper.Add("ComplexCalculation", func(a testStructA, b testStructB) error { return nil })

		doer, err := mapper.Get("ComplexCalculation")
		require.NoError(t, err)

		do, ok := doer.(func(testStructA, testStructB) error)
		require.True(t, ok)
		require.NoError(t, do(testStructA{}, testStructB{}))
	})

	t.Run("All returns the name of each stored action", func(t *testing.T) {
		mapper := &action.Mapper{}
		require.Empty(t, mapper.All(), "expected a just initialized mapper to have nothing to show")

		mapper.Add("ComplexFunction", func() {})
		mapper.Add("SimpleFunction", func() {})
		require.ElementsMatch(t, []string{"ComplexFunction", "SimpleFunction"}, mapper.All())
	})
}

func TestLookup(t *testing.T) {
	t.Run("returns the action typed when it matches", func(t *testing.T) {
		mapper := (&action.Mapper{}).Add("Double", func(i int) int { return i * 2 })

		double, err := action.Lookup[func(int) int](mapper, "Double")

		require.NoError(t, err)
		require.Equal(t, 4, double(2))
	})

	t.Run("errors when the stored action has another signature", func(t *testing.T) {
		mapper := (&action.Mapper{}).Add("Double", func(i int) int { return i * 2 })

		_, err := action.Lookup[func(string) string](mapper, "Double")

		require.ErrorContains(t, err, `action "Double" is func(int) int`)
	})

	t.Run("errors when the action is missing", func(t *testing.T) {
		_, err := action.Lookup[func()](&action.Mapper{}, "Nothing")

		require.ErrorContains(t, err, "no action found for: Nothing")
	})
}
