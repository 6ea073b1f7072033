package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/config"
)

const testSeedHex = "000102030405060708090a0b0c0d0e0f1f1e1d1c1b1a19181716151413121110a5"

// runCLI executes a fresh command tree in process.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func keygen(t *testing.T, dir string, args ...string) string {
	t.Helper()
	path := filepath.Join(dir, "keypair.json")
	_, err := runCLI(t, "", append([]string{"knapsack", "keygen", "--output", path}, args...)...)
	require.NoError(t, err)
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, appName+" version "+version)
	assert.Contains(t, out, knapmerkle.Version)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.toml")
	out, err := runCLI(t, "", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	conf, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), conf)

	_, err = runCLI(t, "", "init", "--config", path)
	require.Error(t, err)
}

func TestKeygen_Export(t *testing.T) {
	path := keygen(t, t.TempDir(), "--params", "128")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var export KeyPairExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "MH-128", export.Params)
	assert.Equal(t, 128, export.Length)
	assert.Equal(t, config.FormatHex, export.Format)
	assert.NotEmpty(t, export.KeyHMAC)
	assert.Len(t, export.Fingerprint, 32)

	kp, err := export.keyPair()
	require.NoError(t, err)
	assert.Len(t, kp.PublicKey.B, 128)

	export.Fingerprint = strings.Repeat("0", 32)
	_, err = export.keyPair()
	require.Error(t, err)
}

func TestKeygen_SeedIsDeterministic(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	p1 := keygen(t, dir1, "--params", "128", "--seed", testSeedHex, "--format", "base64")
	p2 := keygen(t, dir2, "--params", "128", "--seed", testSeedHex, "--format", "base64")

	var e1, e2 KeyPairExport
	for path, e := range map[string]*KeyPairExport{p1: &e1, p2: &e2} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, e))
	}
	assert.Equal(t, e1.PublicKey, e2.PublicKey)
	assert.Equal(t, e1.SecretKey, e2.SecretKey)

	_, err := runCLI(t, "", "knapsack", "keygen", "--seed", "zz")
	require.Error(t, err)
}

func TestKeygen_InvalidParams(t *testing.T) {
	_, err := runCLI(t, "", "knapsack", "keygen", "--params", "99")
	require.Error(t, err)
	_, err = runCLI(t, "", "knapsack", "keygen", "--format", "json")
	require.Error(t, err)
}

func TestEncryptDecrypt(t *testing.T) {
	dir := t.TempDir()
	kpPath := keygen(t, dir)

	out, err := runCLI(t, "", "knapsack", "encrypt", "--keypair", kpPath, "--message", "Hi")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.LessOrEqual(t, len(line), chunkWidth)
	}

	plain, err := runCLI(t, "", "knapsack", "decrypt", "--keypair", kpPath, "--value", out)
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", plain)
}

func TestEncryptDecrypt_Files(t *testing.T) {
	dir := t.TempDir()
	kpPath := keygen(t, dir, "--params", "MH-128")
	msgPath := filepath.Join(dir, "msg.txt")
	ctPath := filepath.Join(dir, "ct.json")
	require.NoError(t, os.WriteFile(msgPath, []byte("file message"), 0644))

	_, err := runCLI(t, "", "knapsack", "encrypt", "-k", kpPath, "--input", msgPath, "--output", ctPath)
	require.NoError(t, err)

	data, err := os.ReadFile(ctPath)
	require.NoError(t, err)
	var export CiphertextExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "MH-128", export.Params)
	assert.Equal(t, 12, export.MessageBytes)

	plain, err := runCLI(t, "", "knapsack", "decrypt", "-k", kpPath, "--ciphertext", ctPath)
	require.NoError(t, err)
	assert.Equal(t, "file message\n", plain)
}

func TestEncrypt_Stdin(t *testing.T) {
	kpPath := keygen(t, t.TempDir(), "--params", "128")

	out, err := runCLI(t, "from stdin\r\nsecond line\n", "knapsack", "encrypt", "-k", kpPath)
	require.NoError(t, err)
	plain, err := runCLI(t, "", "knapsack", "decrypt", "-k", kpPath, "--value", out)
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", plain)
}

func TestEncrypt_OverflowPolicy(t *testing.T) {
	dir := t.TempDir()
	kpPath := keygen(t, dir, "--params", "128")
	long := "0123456789abcdef-overflow"

	_, err := runCLI(t, "", "knapsack", "encrypt", "-k", kpPath, "-m", long)
	require.Error(t, err)

	out, err := runCLI(t, "", "knapsack", "encrypt", "-k", kpPath, "-m", long, "--truncate")
	require.NoError(t, err)
	plain, err := runCLI(t, "", "knapsack", "decrypt", "-k", kpPath, "--value", out)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef\n", plain)

	confPath := filepath.Join(dir, "conf.toml")
	require.NoError(t, os.WriteFile(confPath, []byte("[knapsack]\noverflow = \"truncate\"\n"), 0644))
	_, err = runCLI(t, "", "--config", confPath, "knapsack", "encrypt", "-k", kpPath, "-m", long)
	require.NoError(t, err)
}

func TestDecrypt_Errors(t *testing.T) {
	dir := t.TempDir()
	kpPath := keygen(t, dir, "--params", "128")

	_, err := runCLI(t, "", "knapsack", "decrypt", "-k", kpPath, "--value", "not-a-number")
	require.Error(t, err)
	_, err = runCLI(t, "", "knapsack", "decrypt", "-k", kpPath)
	require.Error(t, err, "one of --ciphertext or --value is required")
	_, err = runCLI(t, "", "knapsack", "decrypt", "-k", filepath.Join(dir, "missing.json"), "--value", "1")
	require.Error(t, err)
}

func TestLoadKeyPair_Tampered(t *testing.T) {
	kpPath := keygen(t, t.TempDir(), "--params", "128")
	data, err := os.ReadFile(kpPath)
	require.NoError(t, err)

	var export KeyPairExport
	require.NoError(t, json.Unmarshal(data, &export))
	// The hex secret key starts with its element count, 0x80 little-endian.
	require.True(t, strings.HasPrefix(export.SecretKey, "80"))
	export.SecretKey = "ff" + export.SecretKey[2:]
	tampered, err := json.Marshal(export)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(kpPath, tampered, 0600))

	_, err = loadKeyPair(kpPath)
	require.Error(t, err)
}

func TestDemo(t *testing.T) {
	out, err := runCLI(t, "Hello, knapsack!\n", "knapsack", "demo", "--params", "640")
	require.NoError(t, err)
	assert.Contains(t, out, "Keys generated successfully!")
	assert.Contains(t, out, "Clear text:\nHello, knapsack!\n")
	assert.Contains(t, out, "Number of clear text bytes = 16")
	assert.Contains(t, out, "Result of decryption:\nHello, knapsack!\n")
	assert.NotContains(t, out, "Enter a string")
}

func writeRecords(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestMerkleRoot(t *testing.T) {
	dir := t.TempDir()
	abc := writeRecords(t, dir, "abc.txt", "a\n b \nc\n")
	empty := writeRecords(t, dir, "empty.txt", "")

	out, err := runCLI(t, "", "merkle", "root", "--input", abc)
	require.NoError(t, err)
	assert.Equal(t, "347C6AE620D4AE042506D67484FC3BE5D4DEE2FF060E8F92D6149C579D172708\n", out)

	out, err = runCLI(t, "", "merkle", "root", "-i", empty)
	require.NoError(t, err)
	assert.Equal(t, "empty\n", out)

	out, err = runCLI(t, "", "merkle", "root", "-i", abc, "--hasher", "SHA3-256")
	require.NoError(t, err)
	assert.Equal(t, "4929FBF49B543EA5403129A3CCA86BA3C4A6D7A7DB3748B3D12B0BBB527C8D07\n", out)

	_, err = runCLI(t, "", "merkle", "root", "-i", abc, "--hasher", "MD5")
	require.Error(t, err)
}

func TestMerkleMatch(t *testing.T) {
	dir := t.TempDir()
	ab := writeRecords(t, dir, "ab.txt", "a\nb\n")
	ba := writeRecords(t, dir, "ba.txt", "b\na\n")
	empty := writeRecords(t, dir, "empty.txt", "")

	out, err := runCLI(t, "", "merkle", "match", "--jobs", "2",
		"--target", "6a20f2ee7789e6bb7f404cc2dd729ff308b724d904f6a455b74d4851ade5aecb",
		ab, ba, empty)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "File: "+ab+" -> Merkle Root: 6A20F2EE7789E6BB7F404CC2DD729FF308B724D904F6A455B74D4851ADE5AECB", lines[0])
	assert.Equal(t, "Match found! The file with the target Merkle root is: "+ab, lines[1])
	assert.Equal(t, "File: "+ba+" -> Merkle Root: 860EA2F9A75A3708944492B5CFF92B83A1A56D3E8904F739703B86E21A46F751", lines[2])
	assert.Equal(t, "File: "+empty+" -> Merkle Root: empty", lines[3])

	_, err = runCLI(t, "", "merkle", "match", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestMerkleProofVerify(t *testing.T) {
	dir := t.TempDir()
	records := writeRecords(t, dir, "records.txt", "a\nb\nc\nd\ne\n")
	proofPath := filepath.Join(dir, "proof.json")
	const root = "3FBDB33DA7546DE05D4E2545D45C64AC8D9B49186CBA5FE08CE9D5027D9C8CAF"

	_, err := runCLI(t, "", "merkle", "proof", "-i", records, "--index", "4", "-o", proofPath)
	require.NoError(t, err)

	out, err := runCLI(t, "", "merkle", "verify", "--root", root, "--record", "e", "--proof", proofPath)
	require.NoError(t, err)
	assert.Equal(t, "Proof is valid\n", out)

	_, err = runCLI(t, "", "merkle", "verify", "--root", root, "--record", "d", "--proof", proofPath)
	require.Error(t, err)

	_, err = runCLI(t, "", "merkle", "proof", "-i", records, "--index", "5")
	require.Error(t, err)
}

func TestBenchmark(t *testing.T) {
	out, err := runCLI(t, "", "benchmark", "--params", "128", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Parameter Set: MH-128")
	assert.Contains(t, out, "Benchmark complete!")
}

func TestChunk(t *testing.T) {
	assert.Nil(t, chunk("", 80))
	assert.Equal(t, []string{"123"}, chunk("123", 80))
	assert.Equal(t, []string{"12", "34", "5"}, chunk("12345", 2))
}

func TestReadLine(t *testing.T) {
	line, err := readLine(strings.NewReader("first\r\nsecond"))
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = readLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	assert.Equal(t, "no newline", line)

	line, err = readLine(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, line)
}
