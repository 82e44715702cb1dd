package source

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "accented spanish header",
			header: "Duración de parada",
			want:   "duracion_de_parada",
		},
		{
			name:   "punctuation stripped",
			header: "Costes tot.reales",
			want:   "costes_totreales",
		},
		{
			name:   "surrounding whitespace",
			header: "  Aviso  ",
			want:   "aviso",
		},
		{
			name:   "mixed case with accents",
			header: "Denominación de objeto técnico",
			want:   "denominacion_de_objeto_tecnico",
		},
		{
			name:   "multiple inner spaces collapse",
			header: "Fecha   de   aviso",
			want:   "fecha_de_aviso",
		},
		{
			name:   "hyphens become underscores",
			header: "status-del-sistema",
			want:   "status_del_sistema",
		},
		{
			name:   "ntilde folds to n",
			header: "Año de montaje",
			want:   "ano_de_montaje",
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHeader(tt.header); got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
