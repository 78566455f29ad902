package main_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/metascan/cmd/metascan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLConfig(t *testing.T) {
	t.Parallel()

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := main.YAMLConfig(strings.NewReader("mode: [unclosed"))

		require.Error(t, err)
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		t.Parallel()

		resolver, err := main.YAMLConfig(strings.NewReader(""))

		require.NoError(t, err)
		v, err := resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "mode"}})
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("renders scalars and lists as flag text", func(t *testing.T) {
		t.Parallel()

		resolver, err := main.YAMLConfig(strings.NewReader("concurrency: 8\nwww-domains: [purina.com, purina.co.uk]\n"))
		require.NoError(t, err)

		v, err := resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "concurrency"}})
		require.NoError(t, err)
		assert.Equal(t, "8", v)

		v, err = resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "www-domains"}})
		require.NoError(t, err)
		assert.Equal(t, "purina.com,purina.co.uk", v)
	})
}
