package catalog

// Seed loads a small sample data set so a fresh instance has something
// to serve.
func Seed(c *Catalog) error {
	books := []struct {
		isbn, title, author string
		year, copies        int
	}{
		{"978-0-7432-7356-5", "The Da Vinci Code", "Dan Brown", 2003, 3},
		{"978-84-376-0494-7", "One Hundred Years of Solitude", "Gabriel Garcia Marquez", 1967, 2},
		{"978-0-06-112008-4", "To Kill a Mockingbird", "Harper Lee", 1960, 2},
		{"978-0-452-28423-4", "1984", "George Orwell", 1949, 4},
		{"978-0-7432-4722-1", "The Great Gatsby", "F. Scott Fitzgerald", 1925, 1},
	}
	for _, b := range books {
		if _, err := c.AddBook(b.isbn, b.title, b.author, b.year, b.copies); err != nil {
			return err
		}
	}

	users := []struct {
		id, name, email string
	}{
		{"U001", "Ana Garcia", "ana.garcia@email.com"},
		{"U002", "Carlos Lopez", "carlos.lopez@email.com"},
		{"U003", "Maria Rodriguez", "maria.rodriguez@email.com"},
	}
	for _, u := range users {
		if _, err := c.AddUser(u.id, u.name, u.email); err != nil {
			return err
		}
	}
	return nil
}
