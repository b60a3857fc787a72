package report

import (
	"fmt"
	"os"
	"strings"
)

const (
	statusStart = "<!-- OFFERS_STATUS:START -->"
	statusEnd   = "<!-- OFFERS_STATUS:END -->"
)

// UpdateReadme substitui o bloco entre os marcadores de status (ou anexa o bloco
// no fim quando os marcadores não existem). Devolve true se o arquivo mudou.
func UpdateReadme(path, statusMD string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("falha ao ler %s: %w", path, err)
	}
	content := string(raw)

	block := statusStart + "\n\n" + statusMD + "\n" + statusEnd

	var updated string
	startIdx := strings.Index(content, statusStart)
	endIdx := strings.Index(content, statusEnd)
	if startIdx >= 0 && endIdx > startIdx {
		updated = content[:startIdx] + block + content[endIdx+len(statusEnd):]
	} else {
		updated = strings.TrimRight(content, "\n") + "\n\n" + block + "\n"
	}

	if updated == content {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("falha ao escrever %s: %w", path, err)
	}
	return true, nil
}
