package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lifefashion/internal/auth"
	"lifefashion/internal/models"
)

// employeeView joins the HR record with its user account and department for
// the admin panel.
type employeeView struct {
	models.Employee `bson:",inline"`
	User            *models.User       `bson:"-" json:"user,omitempty"`
	DepartmentDoc   *models.Department `bson:"-" json:"departmentInfo,omitempty"`
}

// AddEmployee creates the user account (role employee) and the HR record in
// one transaction, so a failed insert never leaves a half-registered
// employee.
func AddEmployee(db *mongo.Database, store ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/employee/add"
		defer handlePanic(c, route)

		name := strings.TrimSpace(c.PostForm("name"))
		email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
		password := c.PostForm("password")
		employeeID := strings.TrimSpace(c.PostForm("employeeId"))
		if name == "" || email == "" || password == "" || employeeID == "" {
			respondError(c, http.StatusBadRequest, "name, email, password and employeeId are required")
			return
		}
		if len(password) < minPasswordLength {
			respondError(c, http.StatusBadRequest, "Please enter a strong password")
			return
		}

		departmentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.PostForm("department")))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid department id")
			return
		}

		salary := 0.0
		if raw := strings.TrimSpace(c.PostForm("salary")); raw != "" {
			salary, err = strconv.ParseFloat(raw, 64)
			if err != nil || salary < 0 {
				respondError(c, http.StatusBadRequest, "invalid salary")
				return
			}
		}

		var dob *time.Time
		if raw := strings.TrimSpace(c.PostForm("dob")); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid dob, expected YYYY-MM-DD")
				return
			}
			dob = &parsed
		}

		profileImage := ""
		if file, err := c.FormFile("profileImage"); err == nil {
			profileImage, err = store.Save(file)
			if err != nil {
				respondError(c, http.StatusBadRequest, err.Error())
				return
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		count, err := db.Collection("departments").CountDocuments(ctx, bson.M{"_id": departmentID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count == 0 {
			respondError(c, http.StatusBadRequest, "Department not found")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         auth.RoleEmployee,
			CartData:     models.CartData{},
			ProfileImage: profileImage,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		employee := models.Employee{
			EmployeeID:    employeeID,
			DOB:           dob,
			Gender:        strings.TrimSpace(c.PostForm("gender")),
			MaritalStatus: strings.TrimSpace(c.PostForm("maritalStatus")),
			Designation:   strings.TrimSpace(c.PostForm("designation")),
			Department:    departmentID,
			ProfileImage:  profileImage,
			Salary:        salary,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			res, err := db.Collection("users").InsertOne(sessCtx, user)
			if err != nil {
				return nil, err
			}
			userID, _ := res.InsertedID.(primitive.ObjectID)
			employee.UserID = userID
			if _, err := db.Collection("employees").InsertOne(sessCtx, employee); err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "Email or employee id already registered")
				return
			}
			zap.L().Error("employee create failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		zap.L().Info("employee added",
			zap.String("employeeId", employeeID), zap.String("email", email))
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Employee Added"})
	}
}

// ListEmployees returns every employee joined with its user and department.
func ListEmployees(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/employee"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("employees").Find(ctx, bson.M{})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		employees := []models.Employee{}
		if err := cursor.All(ctx, &employees); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		views, err := joinEmployeeDocs(ctx, db, employees)
		if err != nil {
			zap.L().Error("employee join failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "employees": views})
	}
}

// GetEmployee resolves the path id as either an employee document id or the
// backing user id, so both panel views can deep-link.
func GetEmployee(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/employee/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid employee id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var employee models.Employee
		err = db.Collection("employees").FindOne(ctx, bson.M{
			"$or": bson.A{bson.M{"_id": id}, bson.M{"userId": id}},
		}).Decode(&employee)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Employee not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		views, err := joinEmployeeDocs(ctx, db, []models.Employee{employee})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "employee": views[0]})
	}
}

// UpdateEmployee edits the mutable HR fields and keeps the user's display
// name in sync.
func UpdateEmployee(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/employee/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid employee id")
			return
		}

		var req struct {
			Name          string  `json:"name"`
			MaritalStatus string  `json:"maritalStatus"`
			Designation   string  `json:"designation"`
			Department    string  `json:"department"`
			Salary        float64 `json:"salary"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.MaritalStatus != "" {
			update["maritalStatus"] = strings.TrimSpace(req.MaritalStatus)
		}
		if req.Designation != "" {
			update["designation"] = strings.TrimSpace(req.Designation)
		}
		if req.Salary > 0 {
			update["salary"] = req.Salary
		}
		if req.Department != "" {
			departmentID, err := primitive.ObjectIDFromHex(req.Department)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid department id")
				return
			}
			update["department"] = departmentID
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var employee models.Employee
		err = db.Collection("employees").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": update},
		).Decode(&employee)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Employee not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			_, err := db.Collection("users").UpdateByID(ctx, employee.UserID, bson.M{
				"$set": bson.M{"name": name, "updatedAt": time.Now()},
			})
			if err != nil {
				zap.L().Warn("employee user name sync failed",
					zap.String("userId", employee.UserID.Hex()), zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Employee Updated"})
	}
}

// joinEmployeeDocs loads the referenced users and departments with two $in
// queries instead of one round trip per employee.
func joinEmployeeDocs(ctx context.Context, db *mongo.Database, employees []models.Employee) ([]employeeView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(employees))
	departmentIDs := make([]primitive.ObjectID, 0, len(employees))
	for _, employee := range employees {
		userIDs = append(userIDs, employee.UserID)
		departmentIDs = append(departmentIDs, employee.Department)
	}

	users := map[primitive.ObjectID]models.User{}
	if len(userIDs) > 0 {
		cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var user models.User
			if err := cursor.Decode(&user); err != nil {
				return nil, err
			}
			users[user.ID] = user
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	departments := map[primitive.ObjectID]models.Department{}
	if len(departmentIDs) > 0 {
		cursor, err := db.Collection("departments").Find(ctx, bson.M{"_id": bson.M{"$in": departmentIDs}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var department models.Department
			if err := cursor.Decode(&department); err != nil {
				return nil, err
			}
			departments[department.ID] = department
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	views := make([]employeeView, 0, len(employees))
	for _, employee := range employees {
		view := employeeView{Employee: employee}
		if user, ok := users[employee.UserID]; ok {
			view.User = &user
		}
		if department, ok := departments[employee.Department]; ok {
			view.DepartmentDoc = &department
		}
		views = append(views, view)
	}
	return views, nil
}
