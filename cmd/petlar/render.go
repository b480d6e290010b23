package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/domain/users"
	"petlar-client/internal/platform/paging"
	"petlar-client/internal/store"
)

// renderer pinta con los colores del tema de la especie. Sin TTY, lipgloss
// no emite colores.
type renderer struct {
	out    io.Writer
	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	status map[animals.AdoptionStatus]lipgloss.Style
}

func newRenderer(out io.Writer, theme store.Theme) renderer {
	r := lipgloss.NewRenderer(out)
	return renderer{
		out:   out,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Colors.Primary)),
		label: r.NewStyle().Foreground(lipgloss.Color(theme.Colors.Hover)),
		muted: r.NewStyle().Foreground(lipgloss.Color(theme.Colors.Highlight)),
		status: map[animals.AdoptionStatus]lipgloss.Style{
			animals.StatusAvailable: r.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary)),
			animals.StatusAdopted:   r.NewStyle().Foreground(lipgloss.Color(theme.Colors.Secondary)),
		},
	}
}

func (r renderer) statusText(s animals.AdoptionStatus) string {
	if st, ok := r.status[s]; ok {
		return st.Render(string(s))
	}
	return string(s)
}

func ageText(a animals.Animal) string {
	if a.BirthDate != "" {
		return animals.FormatDate(a.BirthDate)
	}
	return animals.FormatAge(a.Age)
}

func weightText(g animals.Centikg) string {
	if g <= 0 {
		return ""
	}
	return g.String()
}

func (r renderer) animalList(items []animals.Animal, info paging.PageInfo) {
	if len(items) == 0 {
		fmt.Fprintln(r.out, r.muted.Render("Nenhum animal encontrado."))
		return
	}

	fmt.Fprintln(r.out, r.title.Render(fmt.Sprintf("%-36s  %-14s  %-10s  %-9s  %s", "ID", "NOME", "IDADE", "PESO", "STATUS")))
	for _, a := range items {
		fmt.Fprintf(r.out, "%-36s  %-14s  %-10s  %-9s  %s\n",
			a.ID, a.Name, ageText(a), weightText(a.Weight), r.statusText(a.Status))
	}
	fmt.Fprintln(r.out, r.muted.Render(fmt.Sprintf("%s animal(is) · página %d de %d",
		humanize.Comma(int64(info.TotalElements)), info.Number+1, max(info.TotalPages, 1))))
}

func (r renderer) animal(a animals.Animal) {
	fmt.Fprintln(r.out, r.title.Render(a.Name))

	rows := [][2]string{
		{"ID", a.ID},
		{"Espécie", string(a.Type)},
		{"Idade", ageText(a)},
		{"Sexo", string(a.Sex)},
		{"Raça", a.Breed},
		{"Peso", weightText(a.Weight)},
		{"Porte", string(a.Size)},
		{"Status", r.statusText(a.Status)},
		{"Cadastro", animals.FormatDate(a.RegistrationDate)},
		{"Imagem", a.Image()},
	}
	if a.Author != nil {
		rows = append(rows, [2]string{"Responsável", strings.TrimSpace(a.Author.Name + " " + a.Author.Phone)})
	}
	for _, row := range rows {
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		fmt.Fprintf(r.out, "%s %s\n", r.label.Render(fmt.Sprintf("%-12s", row[0]+":")), row[1])
	}
	if a.Description != "" {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, a.Description)
	}
}

func (r renderer) user(u users.User) {
	fmt.Fprintf(r.out, "%s %s <%s>\n", r.title.Render("Usuário:"), u.Name, u.Email)
}

func (r renderer) message(format string, args ...any) {
	fmt.Fprintln(r.out, r.title.Render(fmt.Sprintf(format, args...)))
}
