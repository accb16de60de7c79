package pages

import (
	"context"
	"errors"

	"library/internal/storage/books"
	"library/internal/types"
	"library/internal/validation"
)

const (
	msgFillAllFields = "Please fill in all fields."
	msgEmptyLibrary  = "Your library is empty. Add some books first."
	msgNoAnalytics   = "No books available for analytics."
)

func handleHome(_ context.Context, _ books.Repository, _ Input) (*Page, error) {
	return &Page{
		Heading: "Welcome to Your Personal Library Manager!",
		Notice: &Notice{
			Level:   NoticeInfo,
			Message: "Navigate using the sidebar to manage your library!",
		},
	}, nil
}

func handleAdd(ctx context.Context, repo books.Repository, in Input) (*Page, error) {
	p := &Page{
		Heading: "Add a New Book",
		Genres:  types.Genres,
		Form:    validation.Book{Year: types.YearMin},
	}

	if !in.Submitted {
		return p, nil
	}

	form := in.Form
	p.Form = form

	if rejected := validateForm(p, &form); rejected {
		return p, nil
	}

	_, err := repo.Add(ctx, form.Title, form.Author, form.Genre, form.Year)
	if err != nil {
		return p, rejectOrFail(p, err)
	}

	p.Form = validation.Book{Year: types.YearMin}
	p.Notice = &Notice{Level: NoticeSuccess, Message: "Book '" + form.Title + "' added successfully!"}

	return p, nil
}

func handleView(ctx context.Context, repo books.Repository, in Input) (*Page, error) {
	p := &Page{Heading: "Your Book Collection", Query: in.Query}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		p.Empty = true
		p.Notice = &Notice{Level: NoticeInfo, Message: msgEmptyLibrary}
		return p, nil
	}

	p.Total = len(rows)
	p.Books = Filter(rows, in.Query)
	if len(p.Books) == 0 {
		p.Notice = &Notice{Level: NoticeInfo, Message: "No books match '" + in.Query + "'."}
	}

	return p, nil
}

func handleUpdate(ctx context.Context, repo books.Repository, in Input) (*Page, error) {
	p := &Page{Heading: "Update Book Details", Genres: types.Genres}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		p.Empty = true
		p.Notice = &Notice{Level: NoticeInfo, Message: msgEmptyLibrary}
		return p, nil
	}

	var selected *types.Book
	p.Options, selected = SelectorOptions(rows, in.SelectedId)

	if !in.Submitted {
		p.Form = formOf(selected)
		return p, nil
	}

	form := in.Form
	p.Form = form

	// the selector fell back to another book, so a rejected form must not be
	// re-rendered against it
	if selected.Id != in.SelectedId {
		p.Form = formOf(selected)
	}

	if rejected := validateForm(p, &form); rejected {
		return p, nil
	}

	// a stale id is not an error, the update then changes nothing
	err = repo.Update(ctx, in.SelectedId, form.Title, form.Author, form.Genre, form.Year)
	if err != nil {
		return p, rejectOrFail(p, err)
	}

	for _, row := range rows {
		if row.Id == in.SelectedId {
			row.Title, row.Author, row.Genre, row.Year = form.Title, form.Author, form.Genre, form.Year
		}
	}

	p.Options, selected = SelectorOptions(rows, in.SelectedId)
	p.Form = formOf(selected)
	p.Notice = &Notice{Level: NoticeSuccess, Message: "Book updated successfully!"}

	return p, nil
}

func handleDelete(ctx context.Context, repo books.Repository, in Input) (*Page, error) {
	p := &Page{Heading: "Delete a Book"}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		p.Empty = true
		p.Notice = &Notice{Level: NoticeInfo, Message: msgEmptyLibrary}
		return p, nil
	}

	if !in.Submitted {
		p.Options, _ = SelectorOptions(rows, in.SelectedId)
		return p, nil
	}

	err = repo.Delete(ctx, in.SelectedId)
	if err != nil {
		return nil, err
	}

	remaining := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		if row.Id != in.SelectedId {
			remaining = append(remaining, row)
		}
	}

	p.Options, _ = SelectorOptions(remaining, 0)
	p.Empty = len(remaining) == 0
	p.Notice = &Notice{Level: NoticeSuccess, Message: "Book deleted successfully!"}

	return p, nil
}

func handleAnalytics(ctx context.Context, repo books.Repository, _ Input) (*Page, error) {
	p := &Page{Heading: "Library Analytics"}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		p.Empty = true
		p.Notice = &Notice{Level: NoticeInfo, Message: msgNoAnalytics}
		return p, nil
	}

	p.Total = len(rows)
	p.Chart = NewChart(GroupByGenre(rows))

	return p, nil
}

func formOf(b *types.Book) validation.Book {
	if b == nil {
		return validation.Book{Year: types.YearMin}
	}

	return validation.Book{Title: b.Title, Author: b.Author, Genre: b.Genre, Year: b.Year}
}

// validateForm reports whether the form was rejected, setting the warning on p.
func validateForm(p *Page, form *validation.Book) bool {
	err := validation.Validate(form)
	if err == nil {
		return false
	}

	p.Rejected = true

	var verr *validation.Error
	if errors.As(err, &verr) && !verr.MissingFields() {
		p.Notice = &Notice{Level: NoticeWarning, Message: verr.Fields[0].Message}
	} else {
		p.Notice = &Notice{Level: NoticeWarning, Message: msgFillAllFields}
	}

	return true
}

// rejectOrFail turns constraint violations into a warning and passes any other error through.
func rejectOrFail(p *Page, err error) error {
	if !errors.Is(err, types.ErrConstraintViolation) {
		return err
	}

	p.Rejected = true
	p.Notice = &Notice{
		Level:   NoticeWarning,
		Message: "The book was not saved: year must be between 1000 and 9999.",
	}

	return nil
}
