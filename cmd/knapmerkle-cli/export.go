package main

import (
	"bufio"
	"crypto/hmac"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/minio/sha256-simd"
	"github.com/spf13/cobra"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/config"
	"github.com/BackendStack21/knapsack-merkle-go/core"
	"github.com/BackendStack21/knapsack-merkle-go/knapsack"
	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

// maxInputFileSize bounds every file the CLI reads.
const maxInputFileSize = 100 * 1024 * 1024

// chunkWidth is the line width of printed ciphertexts.
const chunkWidth = 80

// KeyPairExport represents an exported knapsack key pair
type KeyPairExport struct {
	Params      string `json:"params"`
	Length      int    `json:"length"`
	Format      string `json:"format"`
	Fingerprint string `json:"fingerprint"`
	PublicKey   string `json:"public_key"`
	SecretKey   string `json:"secret_key"`
	CreatedAt   string `json:"created_at"`
	KeyHMAC     string `json:"key_hmac,omitempty"` // HMAC for integrity verification
}

// CiphertextExport represents an exported ciphertext
type CiphertextExport struct {
	Params       string `json:"params"`
	Ciphertext   string `json:"ciphertext"`
	MessageBytes int    `json:"message_bytes"`
	Truncated    bool   `json:"truncated,omitempty"`
}

// generateKeyHMAC computes HMAC-SHA256 of key material keyed with the public
// key. It detects accidental corruption only: the public key is not secret.
func generateKeyHMAC(publicKey, secretKey string) string {
	h := hmac.New(sha256.New, []byte(publicKey))
	h.Write([]byte(secretKey))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func newKeyPairExport(kp *knapmerkle.KnapsackKeyPair, format string) *KeyPairExport {
	export := &KeyPairExport{
		Params:      string(kp.Params.Name),
		Length:      kp.Params.Length,
		Format:      format,
		Fingerprint: knapsack.Fingerprint(&kp.PublicKey),
		PublicKey:   encodeBytes(knapsack.SerializePublicKey(&kp.PublicKey), format),
		SecretKey:   encodeBytes(knapsack.SerializeSecretKey(&kp.SecretKey), format),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	export.KeyHMAC = generateKeyHMAC(export.PublicKey, export.SecretKey)
	return export
}

// keyPair decodes the export and checks every key invariant.
func (e *KeyPairExport) keyPair() (*knapmerkle.KnapsackKeyPair, error) {
	if e.KeyHMAC != "" {
		want := generateKeyHMAC(e.PublicKey, e.SecretKey)
		if !utils.ConstantTimeEqual([]byte(want), []byte(e.KeyHMAC)) {
			return nil, errors.New("key file integrity check failed")
		}
	}
	name, err := core.ParseParamSet(e.Params)
	if err != nil {
		return nil, err
	}
	params, err := core.GetParams(name)
	if err != nil {
		return nil, err
	}

	pkBytes, err := decodeString(e.PublicKey, e.Format)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	skBytes, err := decodeString(e.SecretKey, e.Format)
	if err != nil {
		return nil, fmt.Errorf("secret key: %w", err)
	}
	pk, err := knapsack.DeserializePublicKey(pkBytes)
	if err != nil {
		return nil, err
	}
	sk, err := knapsack.DeserializeSecretKey(skBytes)
	if err != nil {
		return nil, err
	}
	if len(sk.W) != params.Length {
		return nil, fmt.Errorf("%w: %s expects %d elements, key has %d", knapsack.ErrInvalidKeyMaterial, name, params.Length, len(sk.W))
	}

	kp := &knapmerkle.KnapsackKeyPair{PublicKey: *pk, SecretKey: *sk, Params: params}
	if err := knapsack.ValidateKeyPair(kp); err != nil {
		return nil, err
	}
	if e.Fingerprint != "" && e.Fingerprint != knapsack.Fingerprint(pk) {
		return nil, errors.New("key file fingerprint does not match its public key")
	}
	return kp, nil
}

func loadKeyPair(filename string) (*knapmerkle.KnapsackKeyPair, error) {
	data, err := readInputFile(filename)
	if err != nil {
		return nil, err
	}
	var export KeyPairExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}
	return export.keyPair()
}

// loadCiphertext reads a CiphertextExport or a bare decimal ciphertext.
func loadCiphertext(filename string) (string, error) {
	data, err := readInputFile(filename)
	if err != nil {
		return "", err
	}
	var export CiphertextExport
	if err := json.Unmarshal(data, &export); err == nil && export.Ciphertext != "" {
		return export.Ciphertext, nil
	}
	return string(data), nil
}

func encodeBytes(data []byte, format string) string {
	switch format {
	case config.FormatHex:
		return hex.EncodeToString(data)
	default:
		return base64.StdEncoding.EncodeToString(data)
	}
}

func decodeString(s, format string) ([]byte, error) {
	switch format {
	case config.FormatHex:
		return hex.DecodeString(s)
	case config.FormatBase64:
		return base64.StdEncoding.DecodeString(s)
	default:
		return nil, fmt.Errorf("unknown key encoding %q", format)
	}
}

// readInputFile reads a file after checking its size.
func readInputFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > maxInputFileSize {
		return nil, fmt.Errorf("input file too large: %d > %d bytes", info.Size(), maxInputFileSize)
	}
	return os.ReadFile(filename)
}

// readLine reads one line from r without its line terminator.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// writeOutput writes data to filename with owner-only permissions, or to the
// command's output when filename is empty.
func writeOutput(cmd *cobra.Command, data []byte, filename string) error {
	if filename == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return os.Chmod(filename, 0600)
}

// chunk splits s into lines of at most width characters.
func chunk(s string, width int) []string {
	if s == "" {
		return nil
	}
	lines := make([]string, 0, (len(s)+width-1)/width)
	for i := 0; i < len(s); i += width {
		lines = append(lines, s[i:min(i+width, len(s))])
	}
	return lines
}
