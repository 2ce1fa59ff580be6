package gta

import "strings"

// sampleGTA mimics the text layout produced for a Tocantins GTA
const sampleGTA = `GUIA DE TRÂNSITO ANIMAL - GTA
Numero
123456
UF
TO
Série
A
Emissão: 10/05/2025   Validade: 20/05/2025
PROCEDÊNCIA
CPF/CNPJ: 12345678901
Nome: JOAO DA SILVA
Estabelecimento: FAZENDA BOA VISTA
Município - UF: ARAGUAINA - TO
DESTINO
CPF/CNPJ: 98765432100
Nome: FRIGORIFICO TOCANTINS LTDA
Estabelecimento: UNIDADE GURUPI
Município - UF: GURUPI - TO
Finalidade: ABATE
Meio de Transporte: RODOVIARIO
Grupo
Espécie
Categoria
Faixa Etária
Sexo
Quantidade
Bovídeos
Bovinos
-
13 a 24 meses
Fêmea
10 cab.
Bovídeos
Bovinos
-
25 a 36 meses
Macho
12 cab.
`

// verticalTable renders a header followed by one six-line block per row
func verticalTable(rows ...[6]string) []string {
	lines := []string{"Grupo", "Espécie", "Categoria", "Faixa Etária", "Sexo", "Quantidade"}
	for _, row := range rows {
		lines = append(lines, row[:]...)
	}
	return lines
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
