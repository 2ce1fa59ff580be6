package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	GTAExtractDescription = `Extract the structured data of a GTA (Guia de Trânsito Animal) PDF.

**When to use:** A livestock transport certificate has to be turned into data: GTA number, UF, series, validity, origin and destination parties, purpose and the livestock lines.

**Examples:**
• Newest certificate: call with no path to read the most recent PDF of the GTA directory
• Specific file: "Extract GTA 123456.pdf"

**Output:** The record as JSON (numero_gta, uf, serie, validade, cpf/nome/estabelecimento/municipio for procedencia and destino, finalidade, categorias). The same JSON is written to the JSON directory as <pdf name>_dados.json and archived when the SQLite archive is enabled.

**Best practices:** A record with an empty categorias array usually means a scanned or unusual layout; check the PDF with pdf_validate_file.`

	GTAReportDescription = `Price the livestock lines of a GTA with the state price list ("pauta fiscal") and write the invoice report.

**When to use:** Preparing the NF-e for a shipment: every category line is looked up in the price list for the chosen livestock class.

**Examples:**
• "Report the newest GTA for class Gado de Corte"
• "Report GTA 123456.pdf with pauta PAUTA 2025.xlsx, class Gado de Leite"

**Output:** Paths of the Excel report (Relatórios) and the products JSON (JSON), the priced products and any lines without a price list entry.

**Common workflows:**
1. gta_price_classes → pick a class → gta_report
2. gta_report → gta_operation to pick the fiscal operation

**Best practices:** The class is matched ignoring case and accents. When omitted the configured default class is used.`

	GTAOperationDescription = `Pick the fiscal operation for invoicing a GTA.

**When to use:** After extraction, to decide the NF-e nature of operation. When origin and destination share the same CPF/CNPJ the answer is always "REMESSA INTERNA DE TRANSFERÊNCIA DE BOVINO".

**Choices:**
1. REMESSA INTERNA DE TRANSFERÊNCIA DE BOVINO
2. VENDA INTERNA DE BOVINO PARA ABATE
3. VENDA INTERNA DE BOVINO PARA RECRIA, MONTARIA, TRAÇÃO E ENGORDA

**Examples:**
• "Which operation applies to the newest GTA?" (lists the choices when one is needed)
• "Use operation 2 for GTA 123456.pdf"`

	GTAPriceClassesDescription = `List the livestock classes available in a price list spreadsheet.

**When to use:** Before gta_report, to know which classes (for example "Gado de Corte") the pauta fiscal offers.

**Examples:**
• "Which classes does the newest pauta have?"
• "List classes of PAUTA 2025.xlsx"`

	GTAHistoryDescription = `Browse the archive of extracted GTAs.

**When to use:** Looking up a certificate extracted earlier, listing recent extractions, or summing heads per species and sex.

**Examples:**
• "Show the last 10 GTAs"
• "Find GTA 123456 in the archive"
• "How many heads were moved per species and sex?" (totals=true)

**Best practices:** Requires the SQLite archive (--db). Records are listed newest first.`

	PDFValidateFileDescription = `Verify that a file is a readable PDF before extracting it.

**When to use:** A GTA extraction failed or a new file arrived from an unknown source.

**Examples:**
• "Check GTA 123456.pdf is valid"

**Output:** Whether the PDF is valid, its page count, or the reason it is not.`

	PDFSearchDirectoryDescription = `Find GTA PDFs in a directory, newest first.

**When to use:** Locating a certificate by name before extracting it.

**Examples:**
• "List the GTAs in the default directory"
• "Search for 123456"

**Best practices:** Matching is case-insensitive on file names; every word of the query must appear.`

	GTAServerInfoDescription = `Show the server configuration, the configured folders and the available tools.

**When to use:** At the start of a session to learn where GTAs, price lists and reports live.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"gta_extract":          GTAExtractDescription,
	"gta_report":           GTAReportDescription,
	"gta_operation":        GTAOperationDescription,
	"gta_price_classes":    GTAPriceClassesDescription,
	"gta_history":          GTAHistoryDescription,
	"gta_server_info":      GTAServerInfoDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the sorted names of all tools
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns the first line of a tool description
func Summary(toolName string) string {
	desc := GetToolDescription(toolName)
	for i, r := range desc {
		if r == '\n' {
			return desc[:i]
		}
	}
	return desc
}
