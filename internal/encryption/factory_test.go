package encryption

import (
	"testing"

	"daybook/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		wantType string
		wantErr  bool
	}{
		{name: "age", typ: "age", wantType: "*encryption.AgeEncryptor"},
		{name: "empty defaults to age", typ: "", wantType: "*encryption.AgeEncryptor"},
		{name: "test", typ: "test", wantType: "*encryption.TestEncryptor"},
		{name: "unknown", typ: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch tt.wantType {
			case "*encryption.AgeEncryptor":
				if _, ok := got.(*AgeEncryptor); !ok {
					t.Errorf("got %T, want *AgeEncryptor", got)
				}
			case "*encryption.TestEncryptor":
				if _, ok := got.(*TestEncryptor); !ok {
					t.Errorf("got %T, want *TestEncryptor", got)
				}
			}
		})
	}
}
