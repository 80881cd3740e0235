package sqlite

import (
	"context"
	"testing"
)

func TestDirectoryRepository_GetUser(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDirectoryRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 5, "Иванов И.И.", "installer")

	u, err := repo.GetUser(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if u.FullName != "Иванов И.И." || u.ChatID != 500 || !u.IsActive {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := repo.GetUser(ctx, 99); err == nil {
		t.Error("expected error for missing user")
	}
}

func TestDirectoryRepository_UsersWithRoleObjectScoped(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDirectoryRepository(conn)
	ctx := context.Background()
	seedObject(t, conn, 1, "Башня А", "active")
	seedObject(t, conn, 2, "Склад", "active")
	seedUser(t, conn, 3, "Снабженец", "supply")
	seedUser(t, conn, 4, "Другой снабженец", "supply")
	seedObjectRole(t, conn, 1, 3, "supply")
	seedObjectRole(t, conn, 2, 4, "supply")

	ids, err := repo.UsersWithRole(ctx, 1, "supply")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Errorf("role resolution must be object-scoped, got %v", ids)
	}
}

func TestDirectoryRepository_UsersWithRoleGlobal(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDirectoryRepository(conn)
	ctx := context.Background()
	seedUser(t, conn, 1, "Админ", "admin")
	seedUser(t, conn, 2, "Директор", "director")

	ids, err := repo.UsersWithRole(ctx, 0, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("global lookup matches by user role, got %v", ids)
	}
}

func TestDirectoryRepository_InactiveUsersExcluded(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDirectoryRepository(conn)
	ctx := context.Background()
	seedObject(t, conn, 1, "Башня А", "active")
	seedUser(t, conn, 3, "Уволенный", "supply")
	seedObjectRole(t, conn, 1, 3, "supply")
	if _, err := conn.Exec("UPDATE users SET is_active = 0 WHERE id = 3"); err != nil {
		t.Fatal(err)
	}

	ids, err := repo.UsersWithRole(ctx, 1, "supply")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("inactive users must not resolve, got %v", ids)
	}
}

func TestDirectoryRepository_DepartmentHead(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDirectoryRepository(conn)
	ctx := context.Background()
	seedObject(t, conn, 1, "Башня А", "active")
	seedUser(t, conn, 7, "Начальник производства", "department_head")
	seedUser(t, conn, 8, "Рабочий производства", "production")
	seedObjectRole(t, conn, 1, 7, "production")
	seedObjectRole(t, conn, 1, 8, "production")

	head, err := repo.DepartmentHead(ctx, 1, "production")
	if err != nil {
		t.Fatal(err)
	}
	if head != 7 {
		t.Errorf("expected the department head, got %d", head)
	}

	head, err = repo.DepartmentHead(ctx, 1, "supply")
	if err != nil {
		t.Fatal(err)
	}
	if head != 0 {
		t.Errorf("no head assigned means 0, got %d", head)
	}
}

func TestDirectoryRepository_AllDepartmentHeadsAndTeam(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewDirectoryRepository(conn)
	ctx := context.Background()
	seedObject(t, conn, 1, "Башня А", "active")
	seedUser(t, conn, 7, "Начальник производства", "department_head")
	seedUser(t, conn, 9, "Начальник снабжения", "department_head")
	seedUser(t, conn, 5, "Монтажник", "installer")
	seedObjectRole(t, conn, 1, 7, "production")
	seedObjectRole(t, conn, 1, 9, "supply")
	seedObjectRole(t, conn, 1, 5, "installer")

	heads, err := repo.AllDepartmentHeads(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(heads) != 2 {
		t.Errorf("expected 2 heads, got %v", heads)
	}

	team, err := repo.AllTeam(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(team) != 3 {
		t.Errorf("expected the whole crew, got %v", team)
	}
}
